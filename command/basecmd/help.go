package basecmd

import (
	"bufio"
	"strings"

	"github.com/blabu/egeonRpcGateway/command"
)

const (
	helpObject = "o"
	helpTypes  = "t"
)

type helpCommand struct {
	base
}

func NewHelpCommand() command.Command {
	return new(helpCommand)
}

func (c *helpCommand) Name() string {
	return HelpCommandName
}

// Execute - "o" и ссылка: описание объекта, "t": список зарегистрированных типов
func (c *helpCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	q, err := c.readRequest(r)
	if err != nil {
		return err
	}
	res, err := c.page(q)
	return c.reply(w, res, err)
}

func (c *helpCommand) page(q *request) (interface{}, error) {
	sub, err := q.next()
	if err != nil {
		return nil, err
	}
	switch sub {
	case helpObject:
		obj, err := q.object()
		if err != nil {
			return nil, err
		}
		return describe(obj), nil
	case helpTypes:
		return strings.Join(c.gw.Types(), "\n"), nil
	default:
		return nil, unknownSubCommand(HelpCommandName, sub)
	}
}
