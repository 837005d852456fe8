package acl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jsamuelsen/customer-service/internal/platform/config"
)

func TestNewTokenAuth_DisabledWithoutTokenURL(t *testing.T) {
	assert.Nil(t, NewTokenAuth(context.Background(), config.ConnectConfig{}, nil))
}

func TestNewTokenAuth_SetsBearerAndCachesToken(t *testing.T) {
	var issued atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		issued.Add(1)

		if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if r.Form.Get("client_id") != "customer-service" || r.Form.Get("client_secret") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`)
	}))
	t.Cleanup(server.Close)

	auth := NewTokenAuth(context.Background(), config.ConnectConfig{
		TokenURL:     server.URL,
		ClientID:     "customer-service",
		ClientSecret: "s3cret",
		Scopes:       []string{"connect:users"},
	}, nil)
	require.NotNil(t, auth)

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		auth(req)
		assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
	}

	assert.Equal(t, int32(1), issued.Load())
}

type failingSource struct{}

func (failingSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("token endpoint down")
}

func TestTokenAuth_SendsUnauthenticatedOnTokenError(t *testing.T) {
	auth := tokenAuth(failingSource{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	auth(req)

	assert.Empty(t, req.Header.Get("Authorization"))
}
