package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type greetCommand struct {
	Name string
}

func (c greetCommand) Validate() error {
	if c.Name == "" {
		return errors.New("name required")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

func TestCommandBus_Dispatch(t *testing.T) {
	// Arrange
	var order []string
	trace := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	b := NewCommandBus(trace("outer"), trace("inner"), LoggingMiddleware(zap.NewNop()))
	require.NoError(t, b.Register(greetCommand{}, HandlerFor(func(_ context.Context, cmd greetCommand) (string, error) {
		return "hello " + cmd.Name, nil
	})))

	// Act
	got, err := Dispatch[string](context.Background(), b, greetCommand{Name: "ada"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "hello ada", got)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestCommandBus_Errors(t *testing.T) {
	b := NewCommandBus()
	noop := HandlerFor(func(_ context.Context, _ greetCommand) (string, error) { return "", nil })
	require.NoError(t, b.Register(greetCommand{}, noop))

	assert.Error(t, b.Register(greetCommand{}, noop))

	_, err := b.Send(context.Background(), greetCommand{})
	assert.EqualError(t, err, "name required")

	_, err = b.Send(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Dispatch[int](context.Background(), b, greetCommand{Name: "x"})
	assert.Error(t, err)
}
