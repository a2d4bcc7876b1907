package command

import (
	"bufio"
	"errors"
	"testing"

	"github.com/blabu/egeonRpcGateway/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedCommand struct {
	name    string
	tag     string
	initErr error
	gw      *gateway.Gateway
}

func (c *namedCommand) Init(gw *gateway.Gateway) error {
	c.gw = gw
	return c.initErr
}

func (c *namedCommand) Name() string {
	return c.name
}

func (c *namedCommand) Execute(line string, r *bufio.Reader, w *bufio.Writer) error {
	return nil
}

func factory(name, tag string) Factory {
	return func() Command {
		return &namedCommand{name: name, tag: tag}
	}
}

func failingFactory(name string) Factory {
	return func() Command {
		return &namedCommand{name: name, initErr: errors.New("init failed")}
	}
}

func TestBuildRegistersEveryBaseCommand(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	r := Build(gw, []Factory{factory("a", "base"), factory("c", "base"), factory("i", "base")}, nil)

	require.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"a", "c", "i"}, r.Names())
	cmd, ok := r.Get("c")
	require.True(t, ok)
	assert.Same(t, gw, cmd.(*namedCommand).gw)
}

func TestCustomCommandOverridesBaseByName(t *testing.T) {
	gw := gateway.New(gateway.Options{})
	base := []Factory{factory("a", "base"), factory("c", "base")}
	custom := []Factory{factory("c", "custom"), factory("x", "custom")}

	r := Build(gw, base, custom)

	require.Equal(t, 3, r.Len())
	cmd, ok := r.Get("c")
	require.True(t, ok)
	assert.Equal(t, "custom", cmd.(*namedCommand).tag)
	cmd, ok = r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "base", cmd.(*namedCommand).tag)
}

func TestLaterDuplicateInSameListWins(t *testing.T) {
	r := Build(gateway.New(gateway.Options{}), []Factory{factory("a", "first"), factory("a", "second")}, nil)

	require.Equal(t, 1, r.Len())
	cmd, _ := r.Get("a")
	assert.Equal(t, "second", cmd.(*namedCommand).tag)
}

func TestFailedCommandsAreSkipped(t *testing.T) {
	panicking := func() Command { panic("broken factory") }
	nilCommand := func() Command { return nil }
	base := []Factory{factory("a", "base"), failingFactory("b"), nil, factory("c", "base")}
	custom := []Factory{panicking, nilCommand, factory("d", "custom")}

	r := Build(gateway.New(gateway.Options{}), base, custom)

	// 7 descriptors, 4 failed
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"a", "c", "d"}, r.Names())
	_, ok := r.Get("b")
	assert.False(t, ok)
}

func TestFailedOverrideKeepsBaseCommand(t *testing.T) {
	r := Build(gateway.New(gateway.Options{}), []Factory{factory("a", "base")}, []Factory{failingFactory("a")})

	cmd, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "base", cmd.(*namedCommand).tag)
}

func TestFactoryName(t *testing.T) {
	assert.Equal(t, "unknown", FactoryName(nil))
	assert.Contains(t, FactoryName(failingFactory("x")), "command.failingFactory")
}
