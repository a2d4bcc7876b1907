package server

import (
	"net"
	"sync"
	"time"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/command/basecmd"
	"github.com/blabu/egeonRpcGateway/gateway"
	log "github.com/blabu/egeonRpcGateway/logWrapper"

	"go.uber.org/atomic"
)

// Acceptor - принимает соединения и создает на каждое свой Connection
type Acceptor struct {
	gw                  *gateway.Gateway
	custom              []command.Factory
	maxConnectionFromIP uint32
	isStoped            *atomic.Bool

	mtx         sync.Mutex
	listeners   []net.Listener
	connections map[uint64]*Connection
}

// NewAcceptor - maxConnectionFromIP == 0 без ограничения кол-ва соединений с одного адреса
func NewAcceptor(gw *gateway.Gateway, maxConnectionFromIP uint32, custom ...command.Factory) *Acceptor {
	return &Acceptor{
		gw:                  gw,
		custom:              custom,
		maxConnectionFromIP: maxConnectionFromIP,
		isStoped:            atomic.NewBool(false),
		connections:         make(map[uint64]*Connection),
	}
}

// Serve - ждет соединения пока не вызван Stop или listener не закрыт.
// После Stop возвращает nil
func (a *Acceptor) Serve(listen net.Listener) error {
	a.mtx.Lock()
	a.listeners = append(a.listeners, listen)
	a.mtx.Unlock()
	log.Info("Start accept connections at ", listen.Addr().String())
	for !a.isStoped.Load() {
		conn, err := listen.Accept() // Висим ждем соединения
		if err != nil {
			if a.isStoped.Load() {
				break
			}
			if nerr, ok := err.(net.Error); ok && nerr.Temporary() {
				log.Warningf("Temporary Accept() failure - %s", err)
				time.Sleep(5 * time.Millisecond)
				continue
			}
			log.Errorf("Can not accept connection, %v", err)
			return err
		}
		a.accept(conn)
	}
	log.Info("Finish accept connections at ", listen.Addr().String())
	return nil
}

func (a *Acceptor) accept(conn net.Conn) {
	host := gateway.HostOf(conn.RemoteAddr().String())
	st := a.gw.Stat()
	count := st.AddIPAddres(host)
	if a.maxConnectionFromIP != 0 && count > a.maxConnectionFromIP { // Ограничение максимального кол-ва конектов с одного IP адреса
		log.Warningf("Too many connections from %s (%d), connection rejected", host, count)
		st.ReleaseIPAddres(host)
		conn.Close()
		return
	}
	log.Info("Create new connection from ", conn.RemoteAddr().String())
	c := newConnection(a.gw, conn, basecmd.BaseCommands(), a.custom)
	a.mtx.Lock()
	a.connections[c.ID] = c
	a.mtx.Unlock()
	go c.run()
	go func() {
		<-c.Done()
		a.mtx.Lock()
		delete(a.connections, c.ID)
		a.mtx.Unlock()
	}()
	if a.isStoped.Load() {
		c.Close()
	}
}

// CloseConnections - закрывает все открытые соединения, принятые этим Acceptor
func (a *Acceptor) CloseConnections() {
	a.mtx.Lock()
	opened := make([]*Connection, 0, len(a.connections))
	for _, c := range a.connections {
		opened = append(opened, c)
	}
	a.mtx.Unlock()
	for _, c := range opened {
		c.Close()
	}
}

// Stop - прекращает прием новых соединений. Уже открытые соединения работают до своего завершения
func (a *Acceptor) Stop() {
	if !a.isStoped.CAS(false, true) {
		return
	}
	a.mtx.Lock()
	defer a.mtx.Unlock()
	for _, l := range a.listeners {
		if err := l.Close(); err != nil {
			log.Warningf("Close listener %s: %v", l.Addr().String(), err)
		}
	}
}
