package apiclient

import (
	"context"
	"net/http"

	"github.com/pdpkitchen/dashboard/sessions"
	"github.com/pkg/errors"
)

// TokenPair is the body of a successful login or refresh
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges username and password for a token pair and stores it in
// the session of ctx. API errors are returned untouched so their detail reaches the user.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	pair, err := Do[TokenPair](ctx, c, c.loginEndpoint, RequestOptions{
		Method:   http.MethodPost,
		JSON:     loginRequest{Username: username, Password: password},
		SkipAuth: true,
	})
	if err != nil {
		return TokenPair{}, err
	}
	if pair.Access == "" {
		return TokenPair{}, &Error{Kind: KindDecode, Status: http.StatusOK, Message: "login response carries no access token"}
	}

	creds := sessions.Credentials{AccessToken: pair.Access, RefreshToken: pair.Refresh}
	if err := c.Store(ctx).Set(ctx, creds); err != nil {
		return TokenPair{}, errors.Wrap(err, "store credentials")
	}
	return pair, nil
}

// Logout forgets the token pair. The API has no revocation endpoint.
func (c *Client) Logout(ctx context.Context) error {
	return c.Store(ctx).Clear(ctx)
}
