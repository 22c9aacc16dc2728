package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call so callers can branch without string matching
type Kind int

const (
	// KindAuthExpired means the session was cleared and the user must sign in again
	KindAuthExpired Kind = iota + 1
	// KindHTTP is a non-2xx response, including a 401 with no attempts left
	KindHTTP
	// KindTransport means the origin could not be reached
	KindTransport
	// KindDecode is a 2xx response declared as JSON whose body is not JSON
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindAuthExpired:
		return "auth_expired"
	case KindHTTP:
		return "http"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrTokenRefreshFailed   = errors.New("token refresh failed")
	ErrSessionExpired       = errors.New("session expired, sign in again")
)

// Error is returned by every failed Request. Message is meant to be shown to the user verbatim.
type Error struct {
	Kind    Kind
	Status  int // set for KindHTTP
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every auth-expired error match ErrSessionExpired
func (e *Error) Is(target error) bool {
	return target == ErrSessionExpired && e.Kind == KindAuthExpired
}

func IsAuthExpired(err error) bool {
	return KindOf(err) == KindAuthExpired
}

// KindOf returns the kind of err, or 0 when err did not come from the client
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func httpError(status int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP error %d", status)
	detail := struct {
		Detail *string `json:"detail"`
	}{}
	if len(body) > 0 && json.Unmarshal(body, &detail) == nil && detail.Detail != nil && *detail.Detail != "" {
		msg = *detail.Detail
	}
	return &Error{Kind: KindHTTP, Status: status, Message: msg}
}

func authExpired(cause error) *Error {
	return &Error{Kind: KindAuthExpired, Message: cause.Error(), Err: cause}
}
