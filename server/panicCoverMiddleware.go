package server

import (
	"bufio"
	"fmt"
	"runtime/debug"

	"github.com/blabu/egeonRpcGateway/command"
	log "github.com/blabu/egeonRpcGateway/logWrapper"
)

// executeCovered - паника обработчика становится ошибкой и завершает только это соединение
func executeCovered(cmd command.Command, line string, r *bufio.Reader, w *bufio.Writer) (err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Errorf("PANIC in command %q: %v\n%s", line, p, debug.Stack())
			err = fmt.Errorf("command %q panicked: %v", line, p)
		}
	}()
	return cmd.Execute(line, r, w)
}
