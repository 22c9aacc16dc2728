package apiclient_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/pdpkitchen/dashboard/apiclient"
	"github.com/pdpkitchen/dashboard/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		body := map[string]string{}
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, sonic.Unmarshal(data, &body))

		if body["username"] != "admin" || body["password"] != "secret" {
			writeJSON(w, http.StatusBadRequest, `{"detail":"Invalid credentials"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"access":"a1","refresh":"r1"}`)
	})
	return mux
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials are stored", func(t *testing.T) {
		c, store := newTestClient(t, loginHandler(t), sessions.Credentials{AccessToken: "stale"})

		pair, err := c.Login(context.Background(), "admin", "secret")
		require.NoError(t, err)
		require.Equal(t, apiclient.TokenPair{Access: "a1", Refresh: "r1"}, pair)

		creds, err := store.Get(context.Background())
		require.NoError(t, err)
		require.Equal(t, sessions.Credentials{AccessToken: "a1", RefreshToken: "r1"}, creds)
	})

	t.Run("invalid credentials surface the api detail", func(t *testing.T) {
		c, store := newTestClient(t, loginHandler(t), sessions.Credentials{})

		_, err := c.Login(context.Background(), "admin", "wrong")
		require.Error(t, err)
		require.Equal(t, "Invalid credentials", err.Error())
		require.Equal(t, http.StatusBadRequest, apiclient.StatusCode(err))

		creds, err := store.Get(context.Background())
		require.NoError(t, err)
		require.True(t, creds.IsZero())
	})
}

func TestLogout(t *testing.T) {
	c, store := newTestClient(t, http.NotFoundHandler(), sessions.Credentials{AccessToken: "a1", RefreshToken: "r1"})

	require.NoError(t, c.Logout(context.Background()))
	creds, err := store.Get(context.Background())
	require.NoError(t, err)
	require.True(t, creds.IsZero())
}
