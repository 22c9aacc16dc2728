package query

import (
	"context"
	"sync"

	"github.com/pdpkitchen/dashboard/apiclient"
	"github.com/rs/zerolog/log"
)

// Mutation is a write (POST, PUT, DELETE) against a fixed endpoint.
type Mutation[T any] struct {
	c        *Client
	endpoint string
	method   string

	invalidates []string
	onSuccess   func(T)
	onError     func(error)

	mu    sync.Mutex
	state State[T]
}

func NewMutation[T any](c *Client, endpoint, method string) *Mutation[T] {
	return &Mutation[T]{c: c, endpoint: endpoint, method: method}
}

// Invalidates lists the cache groups marked stale after a successful call
func (m *Mutation[T]) Invalidates(groups ...string) *Mutation[T] {
	m.invalidates = append(m.invalidates, groups...)
	return m
}

func (m *Mutation[T]) OnSuccess(fn func(T)) *Mutation[T] {
	m.onSuccess = fn
	return m
}

func (m *Mutation[T]) OnError(fn func(error)) *Mutation[T] {
	m.onError = fn
	return m
}

func (m *Mutation[T]) Endpoint() string {
	return m.endpoint
}

func (m *Mutation[T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Mutate sends variables: nil sends no body, a *apiclient.Multipart goes out
// as is and anything else is encoded as JSON.
func (m *Mutation[T]) Mutate(ctx context.Context, variables any) (T, error) {
	m.setState(State[T]{Status: StatusPending})

	opts := apiclient.RequestOptions{Method: m.method}
	switch v := variables.(type) {
	case nil:
	case *apiclient.Multipart:
		opts.Multipart = v
	default:
		opts.JSON = v
	}

	data, err := m.send(ctx, opts)
	if err != nil {
		m.setState(State[T]{Status: StatusError, Err: err})
		if m.onError != nil {
			m.onError(err)
		}
		return data, err
	}

	if err := m.c.Invalidate(ctx, m.invalidates...); err != nil {
		log.Warn().Err(err).Str("endpoint", m.endpoint).Msg("failed to invalidate query cache")
	}
	m.setState(State[T]{Status: StatusSuccess, Data: data})
	if m.onSuccess != nil {
		m.onSuccess(data)
	}
	return data, nil
}

func (m *Mutation[T]) send(ctx context.Context, opts apiclient.RequestOptions) (T, error) {
	resp, err := m.c.api.Request(ctx, m.endpoint, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeResponse[T](resp)
}

func (m *Mutation[T]) setState(s State[T]) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
