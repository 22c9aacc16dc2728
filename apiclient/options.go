package apiclient

import (
	"net/http"

	"github.com/pdpkitchen/dashboard/sessions"
)

const (
	defaultMaxAttempts     = 3
	defaultRefreshEndpoint = "token/refresh/"
	defaultLoginEndpoint   = "login/"
)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithStore sets the store used when the request context carries none
func WithStore(store sessions.Store) Option {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithRefreshEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.refreshEndpoint = endpoint
	}
}

func WithLoginEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.loginEndpoint = endpoint
	}
}

// RequestOptions describes one logical call. At most one of JSON and Multipart is set.
type RequestOptions struct {
	Method    string // GET when empty
	JSON      any
	Multipart *Multipart
	Header    http.Header // overlaid after the client's own headers
	SkipAuth  bool        // no bearer token, no refresh on 401
}
