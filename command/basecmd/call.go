package basecmd

import (
	"bufio"
	"fmt"
	"reflect"

	"github.com/blabu/egeonRpcGateway/command"
)

type callCommand struct {
	base
}

func NewCallCommand() command.Command {
	return new(callCommand)
}

func (c *callCommand) Name() string {
	return CallCommandName
}

// Execute - ссылка на объект, имя метода, аргументы
func (c *callCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	q, err := c.readRequest(r)
	if err != nil {
		return err
	}
	res, err := c.call(q)
	return c.reply(w, res, err)
}

func (c *callCommand) call(q *request) (interface{}, error) {
	obj, err := q.object()
	if err != nil {
		return nil, err
	}
	name, err := q.next()
	if err != nil {
		return nil, err
	}
	args, err := q.rest()
	if err != nil {
		return nil, err
	}
	m := reflect.ValueOf(obj).MethodByName(name)
	if !m.IsValid() {
		return nil, fmt.Errorf("no method %s in %T", name, obj)
	}
	return invoke(m, args)
}
