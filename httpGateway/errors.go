package httpGateway

import (
	"encoding/json"
	"net/http"

	log "github.com/blabu/egeonRpcGateway/logWrapper"
)

type httpError struct {
	statusCode int
	err        error
}

func (h httpError) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, er := json.Marshal(map[string]string{"error": h.err.Error()})
	if er != nil {
		log.Error(er.Error())
		return
	}
	w.Header().Add("Access-Control-Allow-Origin", "*")
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(h.statusCode)
	w.Write(body)
}
