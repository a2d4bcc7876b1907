package server

import (
	"net"

	"go.uber.org/atomic"
)

// trafficCounter - считает байты прочитанные из соединения и записанные в него
type trafficCounter struct {
	net.Conn
	receivedBytes    atomic.Uint64
	transmittedBytes atomic.Uint64
	closed           atomic.Bool
}

func newTrafficCounter(conn net.Conn) *trafficCounter {
	return &trafficCounter{Conn: conn}
}

func (c *trafficCounter) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	c.receivedBytes.Add(uint64(n))
	return n, err
}

func (c *trafficCounter) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	c.transmittedBytes.Add(uint64(n))
	return n, err
}

// Close - повторное закрытие ничего не делает
func (c *trafficCounter) Close() error {
	if !c.closed.CAS(false, true) {
		return nil
	}
	return c.Conn.Close()
}
