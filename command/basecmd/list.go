package basecmd

import (
	"bufio"
	"fmt"
	"reflect"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/gateway"
	"github.com/blabu/egeonRpcGateway/protocol"
)

// Подкоманды list
const (
	listSort    = "s"
	listReverse = "r"
	listSlice   = "l"
	listConcat  = "a"
	listMult    = "m"
	listCount   = "f"
)

type listCommand struct {
	base
}

func NewListCommand() command.Command {
	return new(listCommand)
}

func (c *listCommand) Name() string {
	return ListCommandName
}

func (c *listCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	q, err := c.readRequest(r)
	if err != nil {
		return err
	}
	res, err := c.dispatch(q)
	return c.reply(w, res, err)
}

func (c *listCommand) dispatch(q *request) (interface{}, error) {
	sub, err := q.next()
	if err != nil {
		return nil, err
	}
	l, err := q.list()
	if err != nil {
		return nil, err
	}
	switch sub {
	case listSort:
		l.Sort(less)
		return protocol.Void{}, nil
	case listReverse:
		l.Reverse()
		return protocol.Void{}, nil
	case listSlice:
		start, err := q.integer()
		if err != nil {
			return nil, err
		}
		end, err := q.integer()
		if err != nil {
			return nil, err
		}
		items := l.Items()
		from, to := clamp(start, len(items)), clamp(end, len(items))
		if from > to {
			from = to
		}
		return gateway.NewList(items[from:to]...), nil
	case listConcat:
		other, err := q.list()
		if err != nil {
			return nil, err
		}
		items, rest := l.Items(), other.Items()
		if len(items)+len(rest) > MaxSequenceLen {
			return nil, errSequenceTooLong
		}
		return gateway.NewList(append(items, rest...)...), nil
	case listMult:
		n, err := q.integer()
		if err != nil {
			return nil, err
		}
		return repeat(l.Items(), n)
	case listCount:
		v, err := q.value()
		if err != nil {
			return nil, err
		}
		var count int64
		for _, item := range l.Items() {
			if reflect.DeepEqual(item, v) {
				count++
			}
		}
		return count, nil
	default:
		return nil, unknownSubCommand(ListCommandName, sub)
	}
}

// repeat - n копий items подряд. Длина результата ограничена MaxSequenceLen
func repeat(items []interface{}, n int64) (*gateway.List, error) {
	if n <= 0 || len(items) == 0 {
		return gateway.NewList(), nil
	}
	if n > MaxSequenceLen/int64(len(items)) {
		return nil, errSequenceTooLong
	}
	res := make([]interface{}, 0, int64(len(items))*n)
	for i := int64(0); i < n; i++ {
		res = append(res, items...)
	}
	return gateway.NewList(res...), nil
}

// clamp - индекс в стиле срезов python: отрицательный считается с конца
func clamp(i int64, n int) int {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 {
		return 0
	}
	if i > int64(n) {
		return n
	}
	return int(i)
}

// less - числа сравниваются как числа, строки лексикографически, остальное по строковому виду
func less(a, b interface{}) bool {
	fa, okA := number(a)
	fb, okB := number(b)
	if okA && okB {
		return fa < fb
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return sa < sb
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
