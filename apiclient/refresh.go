package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdpkitchen/dashboard/sessions"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// refreshTimeout bounds a shared exchange, which no single caller can cancel
const refreshTimeout = 30 * time.Second

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// refresh exchanges the stored refresh token for a new access token and
// persists it. Callers presenting the same refresh token share one exchange.
// A caller whose ctx ends while waiting gets ctx.Err(); the exchange carries on
// for the others.
func (c *Client) refresh(ctx context.Context, store sessions.Store) (string, error) {
	creds, err := store.Get(ctx)
	if err != nil {
		return "", errors.Wrap(err, "read session")
	}
	if creds.RefreshToken == "" {
		return "", ErrRefreshTokenNotFound
	}

	shared := context.WithoutCancel(ctx)
	ch := c.refreshes.DoChan(creds.RefreshToken, func() (any, error) {
		exchangeCtx, cancel := context.WithTimeout(shared, refreshTimeout)
		defer cancel()
		return c.exchangeRefreshToken(exchangeCtx, creds.RefreshToken)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return "", res.Err
	}
	pair := res.Val.(TokenPair)

	next := sessions.Credentials{AccessToken: pair.Access, RefreshToken: creds.RefreshToken}
	if pair.Refresh != "" {
		next.RefreshToken = pair.Refresh
	}
	if err := store.Set(ctx, next); err != nil {
		return "", errors.Wrap(err, "persist refreshed token")
	}
	return pair.Access, nil
}

func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	payload, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrTokenRefreshFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(c.refreshEndpoint), bytes.NewReader(payload))
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrTokenRefreshFailed, err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	status, _, body, err := c.do(req)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrTokenRefreshFailed, err)
	}
	if status < 200 || status > 299 {
		return TokenPair{}, ErrTokenRefreshFailed
	}

	pair := TokenPair{}
	if err := json.Unmarshal(body, &pair); err != nil || pair.Access == "" {
		return TokenPair{}, ErrTokenRefreshFailed
	}
	return pair, nil
}
