package basecmd

import (
	"bufio"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/protocol"
)

const (
	fieldGet = "g"
	fieldSet = "s"
)

type fieldCommand struct {
	base
}

func NewFieldCommand() command.Command {
	return new(fieldCommand)
}

func (c *fieldCommand) Name() string {
	return FieldCommandName
}

func (c *fieldCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	q, err := c.readRequest(r)
	if err != nil {
		return err
	}
	res, err := c.dispatch(q)
	return c.reply(w, res, err)
}

func (c *fieldCommand) dispatch(q *request) (interface{}, error) {
	sub, err := q.next()
	if err != nil {
		return nil, err
	}
	if sub != fieldGet && sub != fieldSet {
		return nil, unknownSubCommand(FieldCommandName, sub)
	}
	obj, err := q.object()
	if err != nil {
		return nil, err
	}
	name, err := q.next()
	if err != nil {
		return nil, err
	}
	f, err := structField(obj, name)
	if err != nil {
		return nil, err
	}
	if sub == fieldGet {
		return f.Interface(), nil
	}
	v, err := q.value()
	if err != nil {
		return nil, err
	}
	return protocol.Void{}, setElem(f, v)
}
