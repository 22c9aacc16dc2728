package query

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is what a page observes of a query or mutation
type State[T any] struct {
	Status Status
	Data   T
	Err    error
}

func (s State[T]) Pending() bool {
	return s.Status == StatusPending
}

func (s State[T]) Failed() bool {
	return s.Status == StatusError
}
