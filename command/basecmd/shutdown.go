package basecmd

import (
	"bufio"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/protocol"
)

type shutdownCommand struct {
	base
}

func NewShutdownCommand() command.Command {
	return new(shutdownCommand)
}

func (c *shutdownCommand) Name() string {
	return ShutdownCommandName
}

// Execute - подтверждает запрос и останавливает шлюз
func (c *shutdownCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	if _, err := protocol.ReadLines(r); err != nil {
		return err
	}
	err := c.reply(w, protocol.Void{}, nil)
	c.gw.Shutdown()
	return err
}
