package httpGateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/command/basecmd"
	cf "github.com/blabu/egeonRpcGateway/configuration"
	"github.com/blabu/egeonRpcGateway/data"
	"github.com/blabu/egeonRpcGateway/dto"
	"github.com/blabu/egeonRpcGateway/gateway"
	log "github.com/blabu/egeonRpcGateway/logWrapper"

	"github.com/gorilla/mux"
)

var errNoStore = errors.New("Session store is not configured")

func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		httpError{statusCode: http.StatusInternalServerError, err: err}.ServeHTTP(w, r)
		return
	}
	w.Header().Add("Access-Control-Allow-Origin", "*")
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func getServerStatus(gw *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Access-Control-Allow-Origin", "*")
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(gw.Stat().GetJsonStat())
	}
}

func getSessions(gw *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := gw.Store()
		if store == nil {
			httpError{statusCode: http.StatusServiceUnavailable, err: errNoStore}.ServeHTTP(w, r)
			return
		}
		res := make([]dto.SessionRecord, 0, 32)
		err := store.ForEach(func(rec dto.SessionRecord) error {
			res = append(res, rec)
			return nil
		})
		if err != nil {
			httpError{statusCode: http.StatusInternalServerError, err: err}.ServeHTTP(w, r)
			return
		}
		writeJSON(w, r, res)
	}
}

func getSession(gw *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := gw.Store()
		if store == nil {
			httpError{statusCode: http.StatusServiceUnavailable, err: errNoStore}.ServeHTTP(w, r)
			return
		}
		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			httpError{statusCode: http.StatusBadRequest, err: err}.ServeHTTP(w, r)
			return
		}
		rec, err := store.Get(id)
		if errors.Is(err, data.ErrNotFound) {
			httpError{statusCode: http.StatusNotFound, err: err}.ServeHTTP(w, r)
			return
		}
		if err != nil {
			httpError{statusCode: http.StatusInternalServerError, err: err}.ServeHTTP(w, r)
			return
		}
		writeJSON(w, r, rec)
	}
}

// getCommands - команды, которые получит каждое новое соединение.
// Реестр строится один раз при создании роутера
func getCommands(gw *gateway.Gateway, custom []command.Factory) http.HandlerFunc {
	names := command.Build(gw, basecmd.BaseCommands(), custom).Names()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, names)
	}
}

func getTypes(gw *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, gw.Types())
	}
}

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Allow", http.MethodGet)
	w.Header().Add("Allow", http.MethodOptions)
	w.Header().Add("Access-Control-Allow-Methods", http.MethodGet)
	w.Header().Add("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
}

// NewRouter - API статистики и истории соединений шлюза
func NewRouter(gw *gateway.Gateway, custom []command.Factory) *mux.Router {
	r := mux.NewRouter()
	r.Methods(http.MethodOptions).HandlerFunc(optionsHandler)
	r.Methods(http.MethodGet).Path(internalStatus).HandlerFunc(getServerStatus(gw))
	r.Methods(http.MethodGet).Path(sessions).HandlerFunc(getSessions(gw))
	r.Methods(http.MethodGet).Path(session).HandlerFunc(getSession(gw))
	r.Methods(http.MethodGet).Path(commands).HandlerFunc(getCommands(gw, custom))
	r.Methods(http.MethodGet).Path(types).HandlerFunc(getTypes(gw))
	r.MethodNotAllowedHandler = httpError{err: errors.New("Method not allowed. Sorry"), statusCode: http.StatusMethodNotAllowed}
	r.NotFoundHandler = httpError{err: errors.New("Method not exist. Sorry"), statusCode: http.StatusNotFound}
	return r
}

/*
RunGateway - HTTP сервер статистики шлюза. Блокирует до ошибки сервера.
Если в конфигурации заданы сертификат и ключ, работает по https
*/
func RunGateway(address string, gw *gateway.Gateway, custom []command.Factory) error {
	log.Info("Start http gateway on ", address)
	srv := http.Server{
		Handler:     NewRouter(gw, custom),
		Addr:        address,
		ReadTimeout: 60 * time.Second,
	}
	if cf.Config.CertificatePath != "" && cf.Config.PrivateKeyPath != "" {
		log.Info("Start https server")
		return srv.ListenAndServeTLS(cf.Config.CertificatePath, cf.Config.PrivateKeyPath)
	}
	return srv.ListenAndServe()
}
