package basecmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/blabu/egeonRpcGateway/command"
	"github.com/blabu/egeonRpcGateway/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Owner   string
	Balance int64
	Rate    float64
	secret  string
}

func (a *account) Deposit(v int64) error {
	if v <= 0 {
		return errors.New("amount must be positive")
	}
	a.Balance += v
	return nil
}

func (a *account) Tags(prefix string, tags ...string) string {
	return prefix + strings.Join(tags, ",")
}

func (a *account) Explode() {
	panic("boom")
}

func (a *account) History() []string {
	return []string{"open"}
}

func newAccount(args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, errors.New("owner expected")
	}
	owner, _ := args[0].(string)
	return &account{Owner: owner}, nil
}

func run(t *testing.T, gw *gateway.Gateway, f command.Factory, lines ...string) string {
	t.Helper()
	cmd := f()
	require.NoError(t, cmd.Init(gw))
	in := bufio.NewReader(strings.NewReader(strings.Join(append(lines, "e"), "\n") + "\n"))
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	require.NoError(t, cmd.Execute(cmd.Name(), in, w))
	_, err := in.ReadByte()
	assert.Equal(t, io.EOF, err, "request was not fully consumed")
	return strings.TrimSuffix(out.String(), "\n")
}

func TestBaseCommandNamesAreDistinct(t *testing.T) {
	names := make(map[string]bool)
	for _, f := range BaseCommands() {
		name := f().Name()
		assert.False(t, names[name], "duplicate name %s", name)
		names[name] = true
	}
	assert.Len(t, names, 10)
}

func TestInitRejectsNilGateway(t *testing.T) {
	for _, f := range BaseCommands() {
		assert.Error(t, f().Init(nil))
	}
}

func TestCallCommand(t *testing.T) {
	acc := &account{Owner: "bob"}
	gw := gateway.New(gateway.Options{EntryPoint: acc})

	assert.Equal(t, "!yv", run(t, gw, NewCallCommand, "t", "Deposit", "i10"))
	assert.Equal(t, int64(10), acc.Balance)
	assert.Equal(t, "!xamount must be positive", run(t, gw, NewCallCommand, "t", "Deposit", "i0"))
	assert.Equal(t, "!ys#a,b", run(t, gw, NewCallCommand, "t", "Tags", "s#", "sa", "sb"))
	assert.Equal(t, "!ys#", run(t, gw, NewCallCommand, "t", "Tags", "s#"))
	assert.Equal(t, "!xpanic: boom", run(t, gw, NewCallCommand, "t", "Explode"))
	assert.Equal(t, "!xno method Withdraw in *basecmd.account", run(t, gw, NewCallCommand, "t", "Withdraw"))
	assert.Equal(t, "!xexpected 1 arguments, got 0", run(t, gw, NewCallCommand, "t", "Deposit"))
	assert.Equal(t, "!xno such object o99", run(t, gw, NewCallCommand, "o99", "Deposit", "i1"))

	res := run(t, gw, NewCallCommand, "t", "History")
	require.True(t, strings.HasPrefix(res, "!yr"))
	obj, err := gw.Get(strings.TrimPrefix(res, "!yr"))
	require.NoError(t, err)
	assert.Equal(t, []string{"open"}, obj)
}

func TestConstructorCommand(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	gw.RegisterType("bank.Account", newAccount)

	res := run(t, gw, NewConstructorCommand, gateway.DefaultViewID, "bank.Account", "salice")
	require.True(t, strings.HasPrefix(res, "!yr"), res)
	obj, err := gw.Get(strings.TrimPrefix(res, "!yr"))
	require.NoError(t, err)
	assert.Equal(t, "alice", obj.(*account).Owner)

	assert.Equal(t, "!xunknown type Account", run(t, gw, NewConstructorCommand, gateway.DefaultViewID, "Account", "salice"))
	view := gw.NewView()
	require.NoError(t, gw.Import(view, "bank.Account"))
	assert.True(t, strings.HasPrefix(run(t, gw, NewConstructorCommand, view, "Account", "salice"), "!yr"))
	assert.Equal(t, "!xowner expected", run(t, gw, NewConstructorCommand, view, "Account"))
}

func TestFieldCommand(t *testing.T) {
	acc := &account{Owner: "bob", Balance: 5, secret: "x"}
	gw := gateway.New(gateway.Options{EntryPoint: acc})

	assert.Equal(t, "!ysbob", run(t, gw, NewFieldCommand, "g", "t", "Owner"))
	assert.Equal(t, "!yi5", run(t, gw, NewFieldCommand, "g", "t", "Balance"))
	assert.Equal(t, "!yv", run(t, gw, NewFieldCommand, "s", "t", "Owner", "seve"))
	assert.Equal(t, "eve", acc.Owner)
	assert.Equal(t, "!yv", run(t, gw, NewFieldCommand, "s", "t", "Rate", "i2"))
	assert.Equal(t, 2.0, acc.Rate)
	assert.Equal(t, "!xno field secret in *basecmd.account", run(t, gw, NewFieldCommand, "g", "t", "secret"))
	assert.Equal(t, "!xbool can not be used as string", run(t, gw, NewFieldCommand, "s", "t", "Owner", "btrue"))
	assert.Equal(t, `!xunknown "f" sub command "x"`, run(t, gw, NewFieldCommand, "x"))
}

func TestArrayCommand(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	ID := gw.Put([]int64{1, 2, 3})

	assert.Equal(t, "!yi3", run(t, gw, NewArrayCommand, "l", ID))
	assert.Equal(t, "!yi2", run(t, gw, NewArrayCommand, "g", ID, "i1"))
	assert.Equal(t, "!yv", run(t, gw, NewArrayCommand, "s", ID, "i1", "i7"))
	arr, _ := gw.Get(ID)
	assert.Equal(t, []int64{1, 7, 3}, arr)
	assert.Equal(t, "!xindex 3 out of range [0:3]", run(t, gw, NewArrayCommand, "g", ID, "i3"))
	assert.Equal(t, "!xstring can not be used as int64", run(t, gw, NewArrayCommand, "s", ID, "i0", "snope"))

	res := run(t, gw, NewArrayCommand, "c", "i2")
	require.True(t, strings.HasPrefix(res, "!yr"))
	created, err := gw.Get(strings.TrimPrefix(res, "!yr"))
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, "!xnegative length", run(t, gw, NewArrayCommand, "c", "i-1"))

	notArray := gw.Put(&account{})
	assert.Equal(t, "!xobject of type *basecmd.account is not an array", run(t, gw, NewArrayCommand, "l", notArray))
}

func TestListCommand(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	list := gateway.NewList(int64(3), int64(1), int64(2), int64(1))
	ID := gw.Put(list)

	assert.Equal(t, "!yi2", run(t, gw, NewListCommand, "f", ID, "i1"))
	assert.Equal(t, "!yv", run(t, gw, NewListCommand, "s", ID))
	assert.Equal(t, []interface{}{int64(1), int64(1), int64(2), int64(3)}, list.Items())
	assert.Equal(t, "!yv", run(t, gw, NewListCommand, "r", ID))
	assert.Equal(t, []interface{}{int64(3), int64(2), int64(1), int64(1)}, list.Items())

	slice := run(t, gw, NewListCommand, "l", ID, "i1", "i-1")
	obj, err := gw.Get(strings.TrimPrefix(slice, "!yr"))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(2), int64(1)}, obj.(*gateway.List).Items())

	other := gw.Put(gateway.NewList("x"))
	concat := run(t, gw, NewListCommand, "a", ID, other)
	obj, err = gw.Get(strings.TrimPrefix(concat, "!yr"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), obj.(*gateway.List).Size())

	mult := run(t, gw, NewListCommand, "m", other, "i3")
	obj, err = gw.Get(strings.TrimPrefix(mult, "!yr"))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"x", "x", "x"}, obj.(*gateway.List).Items())

	notList := gw.Put([]int64{1})
	assert.Equal(t, "!xobject of type []int64 is not a list", run(t, gw, NewListCommand, "s", notList))
}

func TestListSortMixedValues(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	list := gateway.NewList("b", "a", 2.5, int64(1))
	ID := gw.Put(list)

	assert.Equal(t, "!yv", run(t, gw, NewListCommand, "s", ID))
	assert.Equal(t, []interface{}{int64(1), 2.5, "a", "b"}, list.Items())
}

func TestMemoryCommand(t *testing.T) {
	gw := gateway.New(gateway.Options{EntryPoint: &account{}})
	ID := gw.Put(&account{})

	assert.Equal(t, "!yv", run(t, gw, NewMemoryCommand, "d", ID))
	_, err := gw.Get(ID)
	assert.ErrorIs(t, err, gateway.ErrNoSuchObject)
	assert.Equal(t, "!xno such object", run(t, gw, NewMemoryCommand, "d", ID))
	assert.Equal(t, "!xentry point can not be released", run(t, gw, NewMemoryCommand, "d", gateway.EntryPointID))
}

func TestReflectionCommand(t *testing.T) {
	gw := gateway.New(gateway.Options{EntryPoint: &account{}})
	gw.RegisterType("bank.Account", newAccount)

	assert.Equal(t, "!ybtrue", run(t, gw, NewReflectionCommand, "t", gateway.DefaultViewID, "bank.Account"))
	assert.Equal(t, "!ybfalse", run(t, gw, NewReflectionCommand, "t", gateway.DefaultViewID, "Account"))
	assert.Equal(t, "!ysmethod", run(t, gw, NewReflectionCommand, "m", "t", "Deposit"))
	assert.Equal(t, "!ysfield", run(t, gw, NewReflectionCommand, "m", "t", "Owner"))
	assert.Equal(t, "!ysnone", run(t, gw, NewReflectionCommand, "m", "t", "secret"))
}

func TestViewCommand(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	gw.RegisterType("bank.Account", newAccount)

	res := run(t, gw, NewViewCommand, "c")
	require.True(t, strings.HasPrefix(res, "!ys"))
	view := strings.TrimPrefix(res, "!ys")

	assert.Equal(t, "!yv", run(t, gw, NewViewCommand, "i", view, "bank.Account"))
	full, err := gw.Resolve(view, "Account")
	require.NoError(t, err)
	assert.Equal(t, "bank.Account", full)
	assert.Equal(t, "!yv", run(t, gw, NewViewCommand, "r", view, "bank.Account"))
	_, err = gw.Resolve(view, "Account")
	assert.ErrorIs(t, err, gateway.ErrUnknownType)
	assert.Equal(t, "!xno such view v42", run(t, gw, NewViewCommand, "i", "v42", "bank.Account"))
}

func TestHelpCommand(t *testing.T) {
	gw := gateway.New(gateway.Options{EntryPoint: &account{}})
	gw.RegisterType("bank.Account", newAccount)

	assert.Equal(t, `!ysbank.Account\nlist`, run(t, gw, NewHelpCommand, "t"))
	page := run(t, gw, NewHelpCommand, "o", "t")
	assert.Contains(t, page, "type *basecmd.account")
	assert.Contains(t, page, "Deposit(int64) error")
	assert.Contains(t, page, "Balance int64")
	assert.NotContains(t, page, "secret")
}

func TestShutdownCommand(t *testing.T) {
	gw := gateway.New(gateway.Options{})

	assert.Equal(t, "!yv", run(t, gw, NewShutdownCommand))
	select {
	case <-gw.Done():
	default:
		t.Fatal("gateway was not shut down")
	}
}

func TestTruncatedRequestIsFault(t *testing.T) {
	gw := gateway.New(gateway.Options{EntryPoint: &account{}})
	cmd := NewCallCommand()
	require.NoError(t, cmd.Init(gw))
	var out bytes.Buffer

	err := cmd.Execute("c", bufio.NewReader(strings.NewReader("t\nDeposit\n")), bufio.NewWriter(&out))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Empty(t, out.String())
}

func TestListMultiplyIsBounded(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	empty := gw.Put(gateway.NewList())
	one := gw.Put(gateway.NewList("x"))
	tooLong := fmt.Sprintf("!xlength exceeds %d elements", MaxSequenceLen)

	for _, n := range []string{"i4611686018427387904", "i0", "i-3"} {
		res := run(t, gw, NewListCommand, "m", empty, n)
		obj, err := gw.Get(strings.TrimPrefix(res, "!yr"))
		require.NoError(t, err, res)
		assert.Equal(t, int64(0), obj.(*gateway.List).Size())
	}
	res := run(t, gw, NewListCommand, "m", one, "i-1")
	obj, err := gw.Get(strings.TrimPrefix(res, "!yr"))
	require.NoError(t, err, res)
	assert.Equal(t, int64(0), obj.(*gateway.List).Size())

	assert.Equal(t, tooLong, run(t, gw, NewListCommand, "m", one, "i1099511627776"))
	assert.Equal(t, tooLong, run(t, gw, NewListCommand, "m", one, "i9223372036854775807"))
	assert.Equal(t, tooLong, run(t, gw, NewListCommand, "m", one, fmt.Sprintf("i%d", MaxSequenceLen+1)))

	res = run(t, gw, NewListCommand, "m", one, fmt.Sprintf("i%d", MaxSequenceLen))
	obj, err = gw.Get(strings.TrimPrefix(res, "!yr"))
	require.NoError(t, err, res)
	assert.Equal(t, int64(MaxSequenceLen), obj.(*gateway.List).Size())
}

func TestArrayCreateIsBounded(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	tooLong := fmt.Sprintf("!xlength exceeds %d elements", MaxSequenceLen)
	assert.Equal(t, tooLong, run(t, gw, NewArrayCommand, "c", "i9223372036854775807"))
	assert.Equal(t, tooLong, run(t, gw, NewArrayCommand, "c", fmt.Sprintf("i%d", MaxSequenceLen+1)))
}

func TestPanickingConstructorIsReplied(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	gw.RegisterType("bank.Broken", func(args []interface{}) (interface{}, error) { panic("vault jammed") })

	assert.Equal(t, "!xpanic: vault jammed", run(t, gw, NewConstructorCommand, gateway.DefaultViewID, "bank.Broken"))
}
