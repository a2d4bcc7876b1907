package gateway

import (
	"errors"
	"strconv"
	"sync"

	"go.uber.org/atomic"
)

// EntryPointID - ссылка на объект точки входа
const EntryPointID = "t"

// ErrNoSuchObject - ссылка не найдена в таблице объектов
var ErrNoSuchObject = errors.New("no such object")

type objectTable struct {
	mtx    sync.RWMutex
	last   *atomic.Uint64
	values map[string]interface{}
}

func (t *objectTable) init() {
	t.last = atomic.NewUint64(0)
	t.values = make(map[string]interface{})
}

func (t *objectTable) putWithID(ID string, obj interface{}) {
	t.mtx.Lock()
	t.values[ID] = obj
	t.mtx.Unlock()
}

// Put - сохраняет объект и возвращает ссылку на него
func (g *Gateway) Put(obj interface{}) string {
	ID := "o" + strconv.FormatUint(g.objects.last.Inc(), 10)
	g.objects.putWithID(ID, obj)
	return ID
}

// Get - объект по ссылке
func (g *Gateway) Get(ID string) (interface{}, error) {
	g.objects.mtx.RLock()
	defer g.objects.mtx.RUnlock()
	obj, ok := g.objects.values[ID]
	if !ok {
		return nil, ErrNoSuchObject
	}
	return obj, nil
}

// Delete - освобождает ссылку. Точку входа удалить нельзя
func (g *Gateway) Delete(ID string) error {
	if ID == EntryPointID {
		return errors.New("entry point can not be released")
	}
	g.objects.mtx.Lock()
	defer g.objects.mtx.Unlock()
	if _, ok := g.objects.values[ID]; !ok {
		return ErrNoSuchObject
	}
	delete(g.objects.values, ID)
	return nil
}

// Len - кол-во объектов в таблице
func (g *Gateway) Len() int {
	g.objects.mtx.RLock()
	defer g.objects.mtx.RUnlock()
	return len(g.objects.values)
}
