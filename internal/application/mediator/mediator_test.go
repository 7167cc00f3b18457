package mediator_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/application/mediator"
)

type pingCommand struct{ Value string }

type pingHandler struct{ calls int }

func (h *pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	h.calls++
	cmd := request.(*pingCommand)
	if cmd.Value == "" {
		return nil, errors.New("empty ping")
	}
	return "pong:" + cmd.Value, nil
}

func TestMediator_SendDispatchesByType(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	handler := &pingHandler{}
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, handler))

	// Act
	response, err := m.Send(context.Background(), &pingCommand{Value: "a"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong:a", response)
	assert.Equal(t, 1, handler.calls)
}

func TestMediator_RegistrationErrors(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, m.Register(reflect.TypeOf(&pingCommand{}), &pingHandler{}))

	err := m.Register(reflect.TypeOf(&pingCommand{}), &pingHandler{})
	assert.ErrorContains(t, err, "handler already registered")

	assert.Error(t, m.Register(nil, &pingHandler{}))
	assert.Error(t, m.Register(reflect.TypeOf(""), nil))
}

func TestMediator_SendErrors(t *testing.T) {
	m := mediator.NewMediator()

	_, err := m.Send(context.Background(), nil)
	assert.EqualError(t, err, "request cannot be nil")

	_, err = m.Send(context.Background(), &pingCommand{})
	assert.ErrorContains(t, err, "no handler registered for type *mediator_test.pingCommand")
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, &pingHandler{}))

	var trace []string
	tracing := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			trace = append(trace, name+">")
			response, err := next(ctx, request)
			trace = append(trace, "<"+name)
			return response, err
		}
	}
	m.RegisterMiddleware(tracing("outer"))
	m.RegisterMiddleware(tracing("inner"))

	// Act
	_, err := m.Send(context.Background(), &pingCommand{})

	// Assert
	assert.EqualError(t, err, "empty ping")
	assert.Equal(t, []string{"outer>", "inner>", "<inner", "<outer"}, trace)
}

func TestMediator_MiddlewareCanShortCircuit(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	handler := &pingHandler{}
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, handler))
	m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		return "cached", nil
	})

	// Act
	response, err := m.Send(context.Background(), &pingCommand{Value: "a"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cached", response)
	assert.Zero(t, handler.calls)
}
