package gateway

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownType - конструктор для типа не зарегистрирован
var ErrUnknownType = errors.New("unknown type")

// Constructor - создает новый объект из аргументов запроса
type Constructor func(args []interface{}) (interface{}, error)

type typeTable struct {
	mtx          sync.RWMutex
	constructors map[string]Constructor
}

func (t *typeTable) init() {
	t.constructors = make(map[string]Constructor)
}

// RegisterType - регистрирует конструктор типа. Повторная регистрация заменяет предыдущую
func (g *Gateway) RegisterType(name string, c Constructor) {
	g.types.mtx.Lock()
	g.types.constructors[name] = c
	g.types.mtx.Unlock()
}

// HasType - зарегистрирован ли тип
func (g *Gateway) HasType(name string) bool {
	g.types.mtx.RLock()
	defer g.types.mtx.RUnlock()
	_, ok := g.types.constructors[name]
	return ok
}

// Types - имена всех зарегистрированных типов
func (g *Gateway) Types() []string {
	g.types.mtx.RLock()
	res := make([]string, 0, len(g.types.constructors))
	for name := range g.types.constructors {
		res = append(res, name)
	}
	g.types.mtx.RUnlock()
	sort.Strings(res)
	return res
}

// Construct - создает объект типа name, сохраняет его и возвращает ссылку
func (g *Gateway) Construct(name string, args []interface{}) (string, error) {
	g.types.mtx.RLock()
	c, ok := g.types.constructors[name]
	g.types.mtx.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w %s", ErrUnknownType, name)
	}
	obj, err := construct(c, args)
	if err != nil {
		return "", err
	}
	return g.Put(obj), nil
}

// construct - паника конструктора возвращается как ошибка
func construct(c Constructor, args []interface{}) (obj interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			obj, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	return c(args)
}
