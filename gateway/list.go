package gateway

import (
	"fmt"
	"sort"
	"sync"
)

// ListTypeName - имя встроенного типа списка
const ListTypeName = "list"

// List - изменяемый список доступный клиентам по ссылке.
// Методы вызываются командой call, поэтому список защищен своим мьютексом
type List struct {
	mtx   sync.RWMutex
	items []interface{}
}

// NewList - список из копии items
func NewList(items ...interface{}) *List {
	l := &List{items: make([]interface{}, len(items))}
	copy(l.items, items)
	return l
}

func newListFromArgs(args []interface{}) (interface{}, error) {
	return NewList(args...), nil
}

func (l *List) Append(v interface{}) {
	l.mtx.Lock()
	l.items = append(l.items, v)
	l.mtx.Unlock()
}

func (l *List) Get(i int64) (interface{}, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	if i < 0 || i >= int64(len(l.items)) {
		return nil, fmt.Errorf("index %d out of range [0:%d]", i, len(l.items))
	}
	return l.items[i], nil
}

func (l *List) Set(i int64, v interface{}) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if i < 0 || i >= int64(len(l.items)) {
		return fmt.Errorf("index %d out of range [0:%d]", i, len(l.items))
	}
	l.items[i] = v
	return nil
}

func (l *List) Remove(i int64) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if i < 0 || i >= int64(len(l.items)) {
		return fmt.Errorf("index %d out of range [0:%d]", i, len(l.items))
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return nil
}

func (l *List) Size() int64 {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return int64(len(l.items))
}

// Items - копия элементов
func (l *List) Items() []interface{} {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	res := make([]interface{}, len(l.items))
	copy(res, l.items)
	return res
}

// Replace - атомарно заменяет содержимое
func (l *List) Replace(items []interface{}) {
	l.mtx.Lock()
	l.items = items
	l.mtx.Unlock()
}

// Sort - устойчивая сортировка на месте под блокировкой списка
func (l *List) Sort(less func(a, b interface{}) bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	sort.SliceStable(l.items, func(i, j int) bool { return less(l.items[i], l.items[j]) })
}

// Reverse - разворот на месте под блокировкой списка
func (l *List) Reverse() {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
}
