package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ Value string }

func (pingCommand) Key() string { return "test.ping" }

func TestDispatchRoutesToHandler(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler(bus, pingCommand{}.Key(), HandlerFunc[pingCommand, string](
		func(_ context.Context, cmd pingCommand) (string, error) {
			return "pong:" + cmd.Value, nil
		}))

	out, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{Value: "x"})
	require.NoError(t, err)
	assert.Equal(t, "pong:x", out)
}

func TestDispatchUnknownCommand(t *testing.T) {
	bus := NewInMemoryBus()
	_, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestDispatchPropagatesHandlerError(t *testing.T) {
	bus := NewInMemoryBus()
	boom := errors.New("boom")
	RegisterHandler(bus, pingCommand{}.Key(), HandlerFunc[pingCommand, string](
		func(context.Context, pingCommand) (string, error) {
			return "", boom
		}))

	_, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{})
	assert.ErrorIs(t, err, boom)
}

func TestDispatchNilBus(t *testing.T) {
	_, err := Dispatch[pingCommand, string](context.Background(), nil, pingCommand{})
	assert.ErrorIs(t, err, ErrNilBus)
}
