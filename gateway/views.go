package gateway

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// ErrNoSuchView - пространство имен не создавалось
var ErrNoSuchView = errors.New("no such view")

// DefaultViewID - пространство имен без импортов, существует всегда
const DefaultViewID = "v0"

type viewTable struct {
	mtx   sync.RWMutex
	last  *atomic.Uint64
	views map[string]map[string]string // view -> short name -> full name
}

func (t *viewTable) init() {
	t.last = atomic.NewUint64(0)
	t.views = map[string]map[string]string{DefaultViewID: {}}
}

// NewView - создает пространство имен для сокращенных имен типов
func (g *Gateway) NewView() string {
	ID := fmt.Sprintf("v%d", g.views.last.Inc())
	g.views.mtx.Lock()
	g.views.views[ID] = make(map[string]string)
	g.views.mtx.Unlock()
	return ID
}

func shortName(fullName string) string {
	if i := strings.LastIndexByte(fullName, '.'); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}

// Import - делает тип fullName доступным в view по короткому имени (часть после последней точки)
func (g *Gateway) Import(view, fullName string) error {
	if !g.HasType(fullName) {
		return fmt.Errorf("%w %s", ErrUnknownType, fullName)
	}
	g.views.mtx.Lock()
	defer g.views.mtx.Unlock()
	imports, ok := g.views.views[view]
	if !ok {
		return fmt.Errorf("%w %s", ErrNoSuchView, view)
	}
	imports[shortName(fullName)] = fullName
	return nil
}

// RemoveImport - удаляет импорт из view. Отсутствующий импорт не ошибка
func (g *Gateway) RemoveImport(view, fullName string) error {
	g.views.mtx.Lock()
	defer g.views.mtx.Unlock()
	imports, ok := g.views.views[view]
	if !ok {
		return fmt.Errorf("%w %s", ErrNoSuchView, view)
	}
	short := shortName(fullName)
	if imports[short] == fullName {
		delete(imports, short)
	}
	return nil
}

// Resolve - полное имя типа. Полные имена возвращаются как есть
func (g *Gateway) Resolve(view, name string) (string, error) {
	if g.HasType(name) {
		return name, nil
	}
	g.views.mtx.RLock()
	defer g.views.mtx.RUnlock()
	imports, ok := g.views.views[view]
	if !ok {
		return "", fmt.Errorf("%w %s", ErrNoSuchView, view)
	}
	if full, ok := imports[name]; ok {
		return full, nil
	}
	return "", fmt.Errorf("%w %s", ErrUnknownType, name)
}
