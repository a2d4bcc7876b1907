package basecmd

import (
	"bufio"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/protocol"
)

type constructorCommand struct {
	base
}

func NewConstructorCommand() command.Command {
	return new(constructorCommand)
}

func (c *constructorCommand) Name() string {
	return ConstructorCommandName
}

// Execute - пространство имен, имя типа, аргументы. Ответ - ссылка на новый объект
func (c *constructorCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	q, err := c.readRequest(r)
	if err != nil {
		return err
	}
	ID, err := c.construct(q)
	if err != nil {
		return protocol.WriteError(w, err)
	}
	return protocol.WriteSuccess(w, string(protocol.ReferenceTag)+ID)
}

func (c *constructorCommand) construct(q *request) (string, error) {
	view, err := q.next()
	if err != nil {
		return "", err
	}
	name, err := q.next()
	if err != nil {
		return "", err
	}
	args, err := q.rest()
	if err != nil {
		return "", err
	}
	fullName, err := c.gw.Resolve(view, name)
	if err != nil {
		return "", err
	}
	return c.gw.Construct(fullName, args)
}
