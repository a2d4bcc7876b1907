package command

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sort"

	"github.com/blabu/egeonRpcGateway/gateway"
	log "github.com/blabu/egeonRpcGateway/logWrapper"
)

var (
	// ErrNilFactory - в списке обработчиков nil
	ErrNilFactory = errors.New("factory is nil")
	// ErrNilCommand - фабрика вернула nil
	ErrNilCommand = errors.New("factory returned nil command")
)

// Registry - неизменяемое отображение имени команды на обработчик
type Registry struct {
	commands map[string]Command
}

// Build - создает реестр: сначала base, потом custom.
// Обработчик из custom с тем же именем заменяет базовый.
// Обработчик, который не удалось создать или инициализировать, пропускается с записью в лог
func Build(gw *gateway.Gateway, base, custom []Factory) *Registry {
	r := &Registry{commands: make(map[string]Command, len(base)+len(custom))}
	r.add(gw, base)
	r.add(gw, custom)
	return r
}

func (r *Registry) add(gw *gateway.Gateway, factories []Factory) {
	for _, f := range factories {
		cmd, name, err := create(gw, f)
		if err != nil {
			log.Errorf("Could not initialize command %s: %v", FactoryName(f), err)
			continue
		}
		if _, ok := r.commands[name]; ok {
			log.Debugf("Command %s overridden by %s", name, FactoryName(f))
		}
		r.commands[name] = cmd
	}
}

// create - паника в фабрике, Init или Name превращается в ошибку
func create(gw *gateway.Gateway, f Factory) (cmd Command, name string, err error) {
	if f == nil {
		return nil, "", ErrNilFactory
	}
	defer func() {
		if p := recover(); p != nil {
			cmd, name, err = nil, "", fmt.Errorf("panic: %v", p)
		}
	}()
	if cmd = f(); cmd == nil {
		return nil, "", ErrNilCommand
	}
	if err = cmd.Init(gw); err != nil {
		return nil, "", err
	}
	return cmd, cmd.Name(), nil
}

// FactoryName - имя функции фабрики для логов, "unknown" для nil
func FactoryName(f Factory) string {
	if f == nil {
		return "unknown"
	}
	if fn := runtime.FuncForPC(reflect.ValueOf(f).Pointer()); fn != nil {
		return fn.Name()
	}
	return "unknown"
}

// Get - обработчик по имени команды
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Len - кол-во обработчиков
func (r *Registry) Len() int {
	return len(r.commands)
}

// Names - отсортированные имена команд
func (r *Registry) Names() []string {
	res := make([]string, 0, len(r.commands))
	for name := range r.commands {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}
