package basecmd

import (
	"bufio"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/protocol"
)

const (
	viewCreate = "c"
	viewImport = "i"
	viewRemove = "r"
)

type viewCommand struct {
	base
}

func NewViewCommand() command.Command {
	return new(viewCommand)
}

func (c *viewCommand) Name() string {
	return ViewCommandName
}

func (c *viewCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	q, err := c.readRequest(r)
	if err != nil {
		return err
	}
	res, err := c.dispatch(q)
	return c.reply(w, res, err)
}

func (c *viewCommand) dispatch(q *request) (interface{}, error) {
	sub, err := q.next()
	if err != nil {
		return nil, err
	}
	if sub == viewCreate {
		return c.gw.NewView(), nil
	}
	if sub != viewImport && sub != viewRemove {
		return nil, unknownSubCommand(ViewCommandName, sub)
	}
	view, err := q.next()
	if err != nil {
		return nil, err
	}
	name, err := q.next()
	if err != nil {
		return nil, err
	}
	if sub == viewImport {
		return protocol.Void{}, c.gw.Import(view, name)
	}
	return protocol.Void{}, c.gw.RemoveImport(view, name)
}
