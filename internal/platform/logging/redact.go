package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Credentials for Connect and the database.
var secretFields = []string{
	"password", "secret", "token", "authorization", "cookie", "dsn",
	"access_token", "accessToken", "refresh_token", "refreshToken",
	"client_secret", "clientSecret", "api_key", "apiKey",
}

// Personal data of users mirrored from Connect.
var personalFields = []string{
	"email", "first_name", "last_name", "firstName", "lastName",
}

var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`),
}

// DefaultRedactOptions returns the masq options applied to every handler.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(secretFields)+len(personalFields)+len(secretValues)+1)

	for _, name := range secretFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, name := range personalFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts, masq.WithFieldPrefix("secret"))

	for _, re := range secretValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr creates a slog ReplaceAttr that redacts everything matched
// by DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
