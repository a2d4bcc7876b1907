package basecmd

import (
	"bufio"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/protocol"
)

const memoryDelete = "d"

type memoryCommand struct {
	base
}

func NewMemoryCommand() command.Command {
	return new(memoryCommand)
}

func (c *memoryCommand) Name() string {
	return MemoryCommandName
}

// Execute - "d" и ссылка: клиент больше не использует объект
func (c *memoryCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	q, err := c.readRequest(r)
	if err != nil {
		return err
	}
	sub, err := q.next()
	if err == nil && sub != memoryDelete {
		err = unknownSubCommand(MemoryCommandName, sub)
	}
	var ID string
	if err == nil {
		ID, err = q.next()
	}
	if err == nil {
		err = c.gw.Delete(ID)
	}
	return c.reply(w, protocol.Void{}, err)
}
