package basecmd

import (
	"bufio"
	"reflect"

	"github.com/blabu/egeonRpcGateway/command"
)

const (
	reflectionType   = "t"
	reflectionMember = "m"
)

// Виды членов объекта
const (
	MemberMethod = "method"
	MemberField  = "field"
	MemberNone   = "none"
)

type reflectionCommand struct {
	base
}

func NewReflectionCommand() command.Command {
	return new(reflectionCommand)
}

func (c *reflectionCommand) Name() string {
	return ReflectionCommandName
}

// Execute - "t" view имя: известен ли тип, "m" ссылка имя: вид члена объекта
func (c *reflectionCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	q, err := c.readRequest(r)
	if err != nil {
		return err
	}
	res, err := c.dispatch(q)
	return c.reply(w, res, err)
}

func (c *reflectionCommand) dispatch(q *request) (interface{}, error) {
	sub, err := q.next()
	if err != nil {
		return nil, err
	}
	switch sub {
	case reflectionType:
		view, err := q.next()
		if err != nil {
			return nil, err
		}
		name, err := q.next()
		if err != nil {
			return nil, err
		}
		_, err = c.gw.Resolve(view, name)
		return err == nil, nil
	case reflectionMember:
		obj, err := q.object()
		if err != nil {
			return nil, err
		}
		name, err := q.next()
		if err != nil {
			return nil, err
		}
		return memberKind(obj, name), nil
	default:
		return nil, unknownSubCommand(ReflectionCommandName, sub)
	}
}

func memberKind(obj interface{}, name string) string {
	if obj == nil {
		return MemberNone
	}
	if reflect.ValueOf(obj).MethodByName(name).IsValid() {
		return MemberMethod
	}
	if _, err := structField(obj, name); err == nil {
		return MemberField
	}
	return MemberNone
}
