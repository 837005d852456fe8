package acl

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jsamuelsen/customer-service/internal/platform/config"
)

// NewTokenAuth returns a clients.Config AuthFunc that sets a bearer token
// obtained with the OAuth2 client-credentials grant. It returns nil when no
// token URL is configured, leaving requests unauthenticated.
//
// Tokens are cached and refreshed by the token source. A token that cannot be
// obtained is logged and the request goes out without credentials, so Connect
// answers 401 and the caller sees an ExternalServiceError.
func NewTokenAuth(ctx context.Context, cfg config.ConnectConfig, logger *slog.Logger) func(*http.Request) {
	if cfg.TokenURL == "" {
		return nil
	}

	if logger == nil {
		logger = slog.Default()
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	return tokenAuth(cc.TokenSource(ctx), logger)
}

func tokenAuth(src oauth2.TokenSource, logger *slog.Logger) func(*http.Request) {
	return func(req *http.Request) {
		tok, err := src.Token()
		if err != nil {
			logger.WarnContext(req.Context(), "fetching connect access token", slog.Any("error", err))
			return
		}

		tok.SetAuthHeader(req)
	}
}
