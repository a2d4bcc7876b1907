/*
Package gateway - общее для всех соединений состояние шлюза:
таблица объектов доступных клиентам по ссылкам, конструкторы типов,
пространства имен (view) и учет активных соединений.
Все методы безопасны для одновременного вызова из разных соединений.
*/
package gateway

import (
	"sync"
	"time"

	"github.com/blabu/egeonRpcGateway/data"
	"github.com/blabu/egeonRpcGateway/dto"
	log "github.com/blabu/egeonRpcGateway/logWrapper"
	"github.com/blabu/egeonRpcGateway/stat"

	"go.uber.org/atomic"
)

// Options - необязательные зависимости шлюза
type Options struct {
	EntryPoint interface{}       // объект доступный клиенту по ссылке EntryPointID
	Stat       *stat.Statistics  // nil - создается новая статистика
	Store      data.SessionStore // nil - история соединений не сохраняется
}

type connInfo struct {
	remote  string
	started time.Time
}

// Gateway - разделяемое состояние процесса
type Gateway struct {
	stat  *stat.Statistics
	store data.SessionStore

	objects    objectTable
	types      typeTable
	views      viewTable
	lastConnID atomic.Uint64

	connMtx     sync.Mutex
	connections map[uint64]connInfo
	onClose     []func(ID uint64)

	shutdownOnce sync.Once
	done         chan struct{}
}

// New - создает шлюз
func New(opt Options) *Gateway {
	st := opt.Stat
	if st == nil {
		st = stat.CreateStatistics(0)
	}
	gw := &Gateway{
		stat:        st,
		store:       opt.Store,
		connections: make(map[uint64]connInfo),
		done:        make(chan struct{}),
	}
	gw.objects.init()
	gw.types.init()
	gw.views.init()
	if opt.EntryPoint != nil {
		gw.objects.putWithID(EntryPointID, opt.EntryPoint)
	}
	gw.RegisterType(ListTypeName, newListFromArgs)
	return gw
}

// Stat - статистика шлюза
func (g *Gateway) Stat() *stat.Statistics {
	return g.stat
}

// Store - хранилище истории соединений, может быть nil
func (g *Gateway) Store() data.SessionStore {
	return g.store
}

// OnClose - регистрирует обработчик закрытия соединения
func (g *Gateway) OnClose(handler func(ID uint64)) {
	g.connMtx.Lock()
	defer g.connMtx.Unlock()
	g.onClose = append(g.onClose, handler)
}

// OpenConnection - регистрирует новое соединение и возвращает его идентификатор
func (g *Gateway) OpenConnection(remote string) uint64 {
	ID := g.lastConnID.Inc()
	g.connMtx.Lock()
	g.connections[ID] = connInfo{remote: remote, started: time.Now()}
	g.connMtx.Unlock()
	g.stat.NewConnection()
	log.Infof("Open connection %d from %s", ID, remote)
	return ID
}

// CloseConnection - уведомление от соединения о его завершении.
// Повторное уведомление для того же идентификатора игнорируется
func (g *Gateway) CloseConnection(ID uint64) {
	g.connMtx.Lock()
	info, ok := g.connections[ID]
	delete(g.connections, ID)
	handlers := make([]func(uint64), len(g.onClose))
	copy(handlers, g.onClose)
	g.connMtx.Unlock()
	if !ok {
		log.Warningf("Close notification for unknown connection %d", ID)
		return
	}
	g.stat.CloseConnection(time.Since(info.started))
	g.stat.ReleaseIPAddres(HostOf(info.remote))
	log.Infof("Connection %d from %s closed", ID, info.remote)
	for _, h := range handlers {
		h(ID)
	}
}

// ActiveConnections - кол-во незакрытых соединений
func (g *Gateway) ActiveConnections() int {
	g.connMtx.Lock()
	defer g.connMtx.Unlock()
	return len(g.connections)
}

// SaveSession - сохраняет историю соединения если хранилище задано
func (g *Gateway) SaveSession(rec dto.SessionRecord) {
	if g.store == nil {
		return
	}
	if err := g.store.Save(rec); err != nil {
		log.Errorf("Can not save session %d: %v", rec.ID, err)
	}
}

// Shutdown - просит процесс завершить работу шлюза. Идемпотентна
func (g *Gateway) Shutdown() {
	g.shutdownOnce.Do(func() {
		log.Info("Gateway shutdown requested")
		close(g.done)
	})
}

// Done - закрывается после вызова Shutdown
func (g *Gateway) Done() <-chan struct{} {
	return g.done
}

// WaitIdle - ждет закрытия всех соединений не дольше timeout. false - соединения остались
func (g *Gateway) WaitIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for g.ActiveConnections() != 0 {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
	return true
}
