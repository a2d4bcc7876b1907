package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/command/basecmd"
	"github.com/blabu/egeonRpcGateway/dto"
	"github.com/blabu/egeonRpcGateway/gateway"
	log "github.com/blabu/egeonRpcGateway/logWrapper"
	"github.com/blabu/egeonRpcGateway/protocol"

	"go.uber.org/atomic"
)

/*
Connection - один клиент шлюза.
Владеет транспортом и своим реестром команд, читает команды в собственной горутине
строго последовательно: следующая строка читается только после завершения предыдущей команды.
Любая ошибка чтения или выполнения команды завершает только это соединение.
*/
type Connection struct {
	ID       uint64
	gw       *gateway.Gateway
	conn     *trafficCounter
	reader   *bufio.Reader
	writer   *bufio.Writer
	commands *command.Registry
	state    atomic.Int32
	stopped  atomic.Bool
	done     chan struct{}
	record   dto.SessionRecord
}

// NewConnection - создает соединение с базовым набором команд и дополнительными custom
// (custom с тем же именем заменяет базовую команду) и запускает цикл обработки команд
func NewConnection(gw *gateway.Gateway, conn net.Conn, custom []command.Factory) *Connection {
	c := newConnection(gw, conn, basecmd.BaseCommands(), custom)
	go c.run()
	return c
}

func newConnection(gw *gateway.Gateway, conn net.Conn, base, custom []command.Factory) *Connection {
	counted := newTrafficCounter(conn)
	remote := remoteAddr(conn)
	c := &Connection{
		gw:       gw,
		conn:     counted,
		reader:   bufio.NewReader(counted),
		writer:   bufio.NewWriter(counted),
		commands: command.Build(gw, base, custom),
		done:     make(chan struct{}),
	}
	c.ID = gw.OpenConnection(remote)
	c.record = dto.SessionRecord{
		ID:         c.ID,
		RemoteAddr: remote,
		Started:    time.Now(),
	}
	return c
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}

// State - текущее состояние соединения
func (c *Connection) State() State {
	return State(c.state.Load())
}

// Done - закрывается когда соединение перешло в Closed
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Commands - реестр команд соединения
func (c *Connection) Commands() *command.Registry {
	return c.commands
}

// Close - закрывает транспорт со стороны шлюза. Цикл завершится без ошибки с причиной shutdown
func (c *Connection) Close() {
	c.stopped.Store(true)
	c.conn.Close()
}

func (c *Connection) run() {
	c.state.Store(int32(Running))
	reason, fault := dto.ReasonFault, error(nil)
	defer func() {
		if p := recover(); p != nil {
			reason, fault = dto.ReasonFault, fmt.Errorf("panic: %v", p)
		}
		c.finish(reason, fault)
	}()
	log.Infof("Connection %d ready to receive commands", c.ID)
	reason, fault = c.dispatch()
}

// dispatch - цикл чтения и выполнения команд
func (c *Connection) dispatch() (dto.CloseReason, error) {
	st := c.gw.Stat()
	for {
		line, err := protocol.ReadLine(c.reader)
		if c.stopped.Load() {
			return dto.ReasonShutdown, nil
		}
		if err == io.EOF {
			return dto.ReasonEOF, nil
		}
		if err != nil {
			return dto.ReasonFault, fmt.Errorf("read command: %w", err)
		}
		log.Debugf("Connection %d received command %q", c.ID, line)
		if line == protocol.QuitToken {
			return dto.ReasonQuit, nil
		}
		cmd, ok := c.commands.Get(line)
		if !ok {
			log.Warningf("Unknown command %q in connection %d", line, c.ID)
			c.record.Unknown++
			st.UnknownCommand()
			continue
		}
		if err := executeCovered(cmd, line, c.reader, c.writer); err != nil {
			if c.stopped.Load() {
				return dto.ReasonShutdown, nil
			}
			return dto.ReasonFault, fmt.Errorf("execute %q: %w", line, err)
		}
		c.record.Commands++
		st.CommandExecuted()
	}
}

// finish - выполняется всегда, ровно один раз
func (c *Connection) finish(reason dto.CloseReason, fault error) {
	c.state.Store(int32(Closing))
	if fault != nil {
		log.Warningf("Error occurred in connection %d: %v", c.ID, fault)
		c.record.Fault = fault.Error()
		c.gw.Stat().Fault()
	}
	log.Infof("Closing connection %d (%s)", c.ID, reason)
	c.conn.Close()
	c.record.Reason = reason
	c.record.Finished = time.Now()
	c.record.Duration = c.record.Finished.Sub(c.record.Started)
	c.record.ReceiveByte = c.conn.receivedBytes.Load()
	c.record.TransmitByte = c.conn.transmittedBytes.Load()
	c.gw.SaveSession(c.record)
	c.gw.CloseConnection(c.ID)
	c.state.Store(int32(Closed))
	close(c.done)
}
