package query

import (
	"context"
	"sync"
)

// Query is a read bound to an endpoint. It runs again only when the endpoint
// changes or the previous run did not succeed.
type Query[T any] struct {
	c *Client

	mu       sync.Mutex
	endpoint string
	state    State[T]
}

func NewQuery[T any](c *Client, endpoint string) *Query[T] {
	return &Query[T]{c: c, endpoint: endpoint}
}

func (q *Query[T]) Endpoint() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.endpoint
}

func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Run fetches the current endpoint unconditionally
func (q *Query[T]) Run(ctx context.Context) State[T] {
	q.mu.Lock()
	endpoint := q.endpoint
	q.state.Status = StatusPending
	q.state.Err = nil
	q.mu.Unlock()

	data, err := Fetch[T](ctx, q.c, endpoint)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.endpoint != endpoint {
		// superseded by SetEndpoint while in flight
		return q.state
	}
	if err != nil {
		var zero T
		q.state = State[T]{Status: StatusError, Data: zero, Err: err}
	} else {
		q.state = State[T]{Status: StatusSuccess, Data: data}
	}
	return q.state
}

// SetEndpoint points the query at endpoint, including its query string, and
// runs it when that changes what was last fetched.
func (q *Query[T]) SetEndpoint(ctx context.Context, endpoint string) State[T] {
	q.mu.Lock()
	if q.endpoint == endpoint && q.state.Status == StatusSuccess {
		state := q.state
		q.mu.Unlock()
		return state
	}
	q.endpoint = endpoint
	q.mu.Unlock()
	return q.Run(ctx)
}
