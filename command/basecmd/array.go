package basecmd

import (
	"bufio"
	"reflect"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/protocol"
)

// Подкоманды array
const (
	arrayGet    = "g"
	arraySet    = "s"
	arrayLen    = "l"
	arrayCreate = "c"
)

type arrayCommand struct {
	base
}

func NewArrayCommand() command.Command {
	return new(arrayCommand)
}

func (c *arrayCommand) Name() string {
	return ArrayCommandName
}

func (c *arrayCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	q, err := c.readRequest(r)
	if err != nil {
		return err
	}
	res, err := c.dispatch(q)
	return c.reply(w, res, err)
}

func (c *arrayCommand) dispatch(q *request) (interface{}, error) {
	sub, err := q.next()
	if err != nil {
		return nil, err
	}
	if sub == arrayCreate {
		n, err := q.integer()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errNegativeLength
		}
		if n > MaxSequenceLen {
			return nil, errSequenceTooLong
		}
		return make([]interface{}, n), nil
	}
	obj, err := q.object()
	if err != nil {
		return nil, err
	}
	arr, err := sequence(obj)
	if err != nil {
		return nil, err
	}
	switch sub {
	case arrayLen:
		return arr.Len(), nil
	case arrayGet:
		i, err := q.integer()
		if err != nil {
			return nil, err
		}
		if err = checkIndex(arr, i); err != nil {
			return nil, err
		}
		return arr.Index(int(i)).Interface(), nil
	case arraySet:
		i, err := q.integer()
		if err != nil {
			return nil, err
		}
		v, err := q.value()
		if err != nil {
			return nil, err
		}
		if err = checkIndex(arr, i); err != nil {
			return nil, err
		}
		return protocol.Void{}, setElem(arr.Index(int(i)), v)
	default:
		return nil, unknownSubCommand(ArrayCommandName, sub)
	}
}

func setElem(dst reflect.Value, v interface{}) error {
	if !dst.CanSet() {
		return errNotSettable
	}
	val, err := convertValue(v, dst.Type())
	if err != nil {
		return err
	}
	dst.Set(val)
	return nil
}
