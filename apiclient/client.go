package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pdpkitchen/dashboard/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-ID"
)

// Client talks to the meal tracking API. It attaches the bearer token of the
// active session and refreshes it once on 401 before giving up.
type Client struct {
	baseURL         string
	http            *http.Client
	store           sessions.Store
	maxAttempts     int
	refreshEndpoint string
	loginEndpoint   string

	refreshes singleflight.Group
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[apiclient New] invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[apiclient New] base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/") + "/",
		http:            &http.Client{},
		store:           sessions.NewMemoryStore(),
		maxAttempts:     defaultMaxAttempts,
		refreshEndpoint: defaultRefreshEndpoint,
		loginEndpoint:   defaultLoginEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves endpoint against the base origin
func (c *Client) URL(endpoint string) string {
	return c.baseURL + strings.TrimLeft(endpoint, "/")
}

// Store returns the session store a call made with ctx would use
func (c *Client) Store(ctx context.Context) sessions.Store {
	if store, ok := sessions.FromContext(ctx); ok {
		return store
	}
	return c.store
}

// Request performs one logical call. A 401 with attempts left triggers a token
// refresh and a retry with the new token; a failed refresh clears the session.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	store := c.Store(ctx)

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, err
	}

	creds, err := store.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read session")
	}
	token := creds.Token()
	requestID := uuid.NewString()
	target := c.URL(endpoint)

	// Every pass returns except a 401 with attempts left, so the loop ends by maxAttempts
	for attempt := 1; ; attempt++ {
		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return nil, &Error{Kind: KindTransport, Message: err.Error(), Err: err}
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", contentTypeJSON)
		req.Header.Set(headerRequestID, requestID)
		if !opts.SkipAuth && token.AccessToken != "" {
			token.SetAuthHeader(req)
		}
		for key, values := range opts.Header {
			req.Header.Del(key)
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}

		status, header, respBody, err := c.do(req)
		if err != nil {
			log.Debug().Err(err).Str("request_id", requestID).Str("method", method).Str("endpoint", endpoint).Int("attempt", attempt).Msg("api request failed")
			return nil, &Error{Kind: KindTransport, Message: err.Error(), Err: err}
		}
		log.Debug().Str("request_id", requestID).Str("method", method).Str("endpoint", endpoint).Int("attempt", attempt).Int("status", status).Msg("api request")

		if status == http.StatusUnauthorized && !opts.SkipAuth && attempt < c.maxAttempts {
			access, err := c.refresh(ctx, store)
			if err != nil {
				// Our own cancellation says nothing about the session
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, &Error{Kind: KindTransport, Message: ctxErr.Error(), Err: ctxErr}
				}
				if clearErr := store.Clear(ctx); clearErr != nil {
					log.Err(clearErr).Str("request_id", requestID).Msg("failed to clear session after refresh failure")
				}
				log.Info().Err(err).Str("request_id", requestID).Msg("session expired")
				return nil, authExpired(err)
			}
			token.AccessToken = access
			continue
		}

		if status < 200 || status > 299 {
			return nil, httpError(status, respBody)
		}
		return readResponse(status, header, respBody)
	}
}

func (c *Client) do(req *http.Request) (int, http.Header, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, data, nil
}

func encodeBody(opts RequestOptions) ([]byte, string, error) {
	if opts.Multipart != nil {
		return opts.Multipart.Body, opts.Multipart.ContentType, nil
	}
	if opts.JSON == nil {
		return nil, contentTypeJSON, nil
	}
	data, err := json.Marshal(opts.JSON)
	if err != nil {
		return nil, "", &Error{Kind: KindDecode, Message: err.Error(), Err: errors.Wrap(err, "encode request body")}
	}
	return data, contentTypeJSON, nil
}

func readResponse(status int, header http.Header, body []byte) (*Response, error) {
	contentType := header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), contentTypeJSON) {
		return &Response{
			Status: status,
			Header: header,
			blob:   &Blob{ContentType: contentType, Data: body},
		}, nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("null")
	}
	if !json.Valid(body) {
		return nil, &Error{Kind: KindDecode, Status: status, Message: "invalid JSON in response body"}
	}
	return &Response{Status: status, Header: header, json: body}, nil
}
