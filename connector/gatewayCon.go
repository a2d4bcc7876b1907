/*
Package connector - клиент шлюза на Go.
Используется для проверки шлюза и для вызова объектов шлюза из других Go процессов
*/
package connector

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/blabu/egeonRpcGateway/protocol"
)

//ConfConnection - конфигурация соединения
type ConfConnection struct {
	DialTimeout time.Duration
	CallTimeout time.Duration // 0 - ждем ответ без ограничения
}

//IConnection - интерфейс работы с соединением
type IConnection interface {
	Call(command string, args ...string) (string, error)
	Invoke(target, method string, args ...interface{}) (string, error)
	Send(lines ...string) error
	Quit() error
	Close() error
}

// Ref - ссылка на объект шлюза в аргументах Invoke
type Ref string

//Connection - структура реализующая интерфейс IConnection. Безопасна для использования из нескольких горутин,
//вызовы выполняются последовательно
type Connection struct {
	conn   net.Conn
	cnf    ConfConnection
	reader *bufio.Reader
	writer *bufio.Writer
	mtx    sync.Mutex
}

// Dial - подключение к шлюзу по TCP
func Dial(address string, cnf ConfConnection) (IConnection, error) {
	conn, err := net.DialTimeout("tcp", address, cnf.DialTimeout)
	if err != nil {
		return nil, err
	}
	return NewConnection(conn, cnf), nil
}

// NewConnection - клиент поверх уже установленного соединения
func NewConnection(conn net.Conn, cnf ConfConnection) IConnection {
	return &Connection{
		conn:   conn,
		cnf:    cnf,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}
}

func (c *Connection) writeLines(lines []string) error {
	for _, l := range lines {
		if strings.ContainsAny(l, "\r\n") {
			return fmt.Errorf("line %q contains line break", l)
		}
		if _, err := c.writer.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return c.writer.Flush()
}

// Send - пишет строки без ожидания ответа
func (c *Connection) Send(lines ...string) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.writeLines(lines)
}

// Call - отправляет команду с аргументами (уже закодированными) и ждет одну строку ответа.
// Возвращает закодированное значение ответа или ошибку из ответа шлюза
func (c *Connection) Call(command string, args ...string) (string, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	lines := make([]string, 0, len(args)+2)
	lines = append(lines, command)
	lines = append(lines, args...)
	lines = append(lines, protocol.EndToken)
	if c.cnf.CallTimeout > 0 {
		c.conn.SetDeadline(time.Now().Add(c.cnf.CallTimeout))
		defer c.conn.SetDeadline(time.Time{})
	}
	if err := c.writeLines(lines); err != nil {
		return "", err
	}
	reply, err := protocol.ReadLine(c.reader)
	if err != nil {
		return "", err
	}
	return protocol.ParseReply(reply)
}

// Invoke - вызывает метод объекта шлюза
func (c *Connection) Invoke(target, method string, args ...interface{}) (string, error) {
	encoded := make([]string, 0, len(args)+2)
	encoded = append(encoded, target, method)
	for i, a := range args {
		e, err := EncodeArg(a)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		encoded = append(encoded, e)
	}
	return c.Call(callCommand, encoded...)
}

// имя команды call в базовом наборе шлюза
const callCommand = "c"

var errNotEncodable = errors.New("only primitive values and Ref can be sent")

// EncodeArg - кодирует аргумент запроса
func EncodeArg(v interface{}) (string, error) {
	if r, ok := v.(Ref); ok {
		return string(protocol.ReferenceTag) + string(r), nil
	}
	var isRef bool
	res := protocol.Encode(v, func(interface{}) string {
		isRef = true
		return ""
	})
	if isRef {
		return "", errNotEncodable
	}
	return res, nil
}

// Quit - сообщает шлюзу о завершении и закрывает соединение
func (c *Connection) Quit() error {
	err := c.Send(protocol.QuitToken)
	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *Connection) Close() error {
	return c.conn.Close()
}
