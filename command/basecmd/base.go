/*
Package basecmd - базовый набор команд шлюза.
Любую из них можно заменить своей командой с тем же именем,
передав ее фабрику в списке дополнительных команд соединения
*/
package basecmd

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/gateway"
	"github.com/blabu/egeonRpcGateway/protocol"
)

// Имена базовых команд
const (
	ArrayCommandName       = "a"
	CallCommandName        = "c"
	ConstructorCommandName = "i"
	FieldCommandName       = "f"
	HelpCommandName        = "h"
	ListCommandName        = "l"
	MemoryCommandName      = "m"
	ReflectionCommandName  = "r"
	ShutdownCommandName    = "s"
	ViewCommandName        = "j"
)

// BaseCommands - фабрики базового набора в порядке регистрации
func BaseCommands() []command.Factory {
	return []command.Factory{
		NewArrayCommand,
		NewCallCommand,
		NewConstructorCommand,
		NewFieldCommand,
		NewHelpCommand,
		NewListCommand,
		NewMemoryCommand,
		NewReflectionCommand,
		NewShutdownCommand,
		NewViewCommand,
	}
}

var errGatewayIsNil = errors.New("gateway is nil")

// base - общая часть всех базовых команд
type base struct {
	gw *gateway.Gateway
}

func (b *base) Init(gw *gateway.Gateway) error {
	if gw == nil {
		return errGatewayIsNil
	}
	b.gw = gw
	return nil
}

// reply - ошибки логики уходят клиенту, соединение продолжает работу
func (b *base) reply(w *bufio.Writer, v interface{}, err error) error {
	if err != nil {
		return protocol.WriteError(w, err)
	}
	return protocol.WriteSuccess(w, protocol.Encode(v, b.gw.Put))
}

// request - строки запроса после имени команды
type request struct {
	gw    *gateway.Gateway
	lines []string
	pos   int
}

func (b *base) readRequest(r *bufio.Reader) (*request, error) {
	lines, err := protocol.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return &request{gw: b.gw, lines: lines}, nil
}

func (q *request) next() (string, error) {
	if q.pos >= len(q.lines) {
		return "", fmt.Errorf("missing argument %d", q.pos)
	}
	q.pos++
	return q.lines[q.pos-1], nil
}

// object - следующая строка как ссылка без тега
func (q *request) object() (interface{}, error) {
	ID, err := q.next()
	if err != nil {
		return nil, err
	}
	obj, err := q.gw.Get(ID)
	if err != nil {
		return nil, fmt.Errorf("%w %s", err, ID)
	}
	return obj, nil
}

func (q *request) list() (*gateway.List, error) {
	obj, err := q.object()
	if err != nil {
		return nil, err
	}
	l, ok := obj.(*gateway.List)
	if !ok {
		return nil, fmt.Errorf("object of type %T is not a list", obj)
	}
	return l, nil
}

// value - следующая строка как значение с тегом
func (q *request) value() (interface{}, error) {
	line, err := q.next()
	if err != nil {
		return nil, err
	}
	return protocol.Decode(line, q.gw.Get)
}

func (q *request) integer() (int64, error) {
	v, err := q.value()
	if err != nil {
		return 0, err
	}
	i, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("integer expected, got %T", v)
	}
	return i, nil
}

// rest - все оставшиеся строки как значения
func (q *request) rest() ([]interface{}, error) {
	res, err := protocol.DecodeAll(q.lines[q.pos:], q.gw.Get)
	q.pos = len(q.lines)
	return res, err
}

func unknownSubCommand(cmd, sub string) error {
	return fmt.Errorf("unknown %s sub command %s", strconv.Quote(cmd), strconv.Quote(sub))
}
