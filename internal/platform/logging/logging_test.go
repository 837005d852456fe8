package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/m-mizutani/masq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, raw []byte) []map[string]any {
	t.Helper()

	var out []map[string]any

	for _, line := range bytes.Split(bytes.TrimSpace(raw), []byte("\n")) {
		if len(line) == 0 {
			continue
		}

		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry), string(line))
		out = append(out, entry)
	}

	return out
}

func TestContextLoggers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithContext(context.Background(), base)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithCorrelationID(ctx, "corr-1")
	ctx = WithTraceID(ctx, "4bf92f3577b34da6a3ce929d0e0e4736")

	FromContext(ctx).Info("syncing user")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])
	assert.Equal(t, "corr-1", entries[0]["correlation_id"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entries[0]["trace_id"])
}

func TestFromContext_Fallbacks(t *testing.T) {
	prev := defaultLogger
	t.Cleanup(func() { SetDefault(prev) })

	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	stored := slog.New(slog.NewJSONHandler(io.Discard, nil))
	installed := slog.New(slog.NewJSONHandler(io.Discard, nil))

	SetDefault(installed)

	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, installed, FromContext(nil))
	assert.Same(t, installed, FromContext(context.Background()))
	assert.Same(t, installed, slog.Default())

	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))
	assert.Same(t, stored, FromContextOr(WithContext(context.Background(), stored), fallback))
	assert.Same(t, installed, FromContextOr(context.Background(), nil))
}

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{
			format: "json",
			check: func(t *testing.T, out string) {
				entries := decodeLines(t, []byte(out))
				require.Len(t, entries, 1)
				assert.Equal(t, "customer created", entries[0]["msg"])
				assert.Equal(t, "customer-service", entries[0]["service_name"])
				assert.Equal(t, "1.4.0", entries[0]["service_version"])
			},
		},
		{
			format: "text",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, `msg="customer created"`)
				assert.Contains(t, out, "service_name=customer-service")
			},
		},
		{
			format: "pretty",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "customer created")
				assert.NotContains(t, out, `"msg"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer

			logger := NewWithWriter(&Config{
				Level:   "info",
				Format:  tt.format,
				Service: "customer-service",
				Version: "1.4.0",
			}, &buf)

			logger.Debug("hidden at info")
			logger.Info("customer created")

			assert.NotContains(t, buf.String(), "hidden at info")
			tt.check(t, buf.String())
		})
	}
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{Level: "trace", Format: "json"}, &buf)
	logger.Log(context.Background(), LevelTrace, "identity request")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "DEBUG-4", entries[0]["level"])

	buf.Reset()
	NewWithWriter(&Config{Level: "debug", Format: "json"}, &buf).Log(context.Background(), LevelTrace, "identity request")
	assert.Empty(t, buf.String())
}

func TestNewWithWriter_FileMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	var buf bytes.Buffer

	logger := NewWithWriter(&Config{
		Level:   "info",
		Format:  "pretty",
		Service: "customer-service",
		File:    FileConfig{Enabled: true, Path: path, MaxSizeMB: 1, MaxBackups: 1},
	}, &buf)

	logger.Warn("identity orphaned", slog.String("user_id", "u-1"))

	assert.Contains(t, buf.String(), "identity orphaned")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	entries := decodeLines(t, raw)
	require.Len(t, entries, 1)
	assert.Equal(t, "identity orphaned", entries[0]["msg"])
	assert.Equal(t, "u-1", entries[0]["user_id"])
	assert.Equal(t, "WARN", entries[0]["level"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, slogToCharmLevel(LevelTrace))
	assert.Equal(t, log.DebugLevel, slogToCharmLevel(slog.LevelDebug))
	assert.Equal(t, log.InfoLevel, slogToCharmLevel(slog.LevelInfo))
	assert.Equal(t, log.WarnLevel, slogToCharmLevel(slog.LevelWarn))
	assert.Equal(t, log.ErrorLevel, slogToCharmLevel(slog.LevelError))
	assert.Equal(t, log.ErrorLevel, slogToCharmLevel(slog.LevelError+4))
}

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestTee(t *testing.T) {
	var info, debug bytes.Buffer

	h := Tee(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, h.Enabled(context.Background(), LevelTrace))

	logger := slog.New(h).WithGroup("connect").With(slog.String("operation", "CreateUser"))
	logger.Debug("request sent")
	logger.Info("user created")

	assert.Len(t, decodeLines(t, info.Bytes()), 1)

	entries := decodeLines(t, debug.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]any{"operation": "CreateUser"}, entries[0]["connect"])

	t.Run("joins handler errors", func(t *testing.T) {
		errA, errB := errors.New("disk full"), errors.New("pipe closed")
		noop := slog.NewTextHandler(io.Discard, nil)

		tee := Tee(failingHandler{noop, errA}, noop, failingHandler{noop, errB})
		err := tee.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "x", 0))

		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
	})
}

func TestNewReplaceAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: NewReplaceAttr()}))

	logger.Info("calling connect",
		slog.String("client_secret", "s3cr3t"),
		slog.String("dsn", "postgres://app:pw@db/customers"),
		slog.String("authorization", "Bearer abc.def"),
		slog.String("header", "Basic dXNlcjpwdw=="),
		slog.String("id_token", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.c2ln"),
		slog.String("secret_ref", "vault:connect"),
		slog.String("email", "kari@example.com"),
		slog.String("first_name", "Kari"),
		slog.String("language_code", "no"),
		slog.String("user_id", "8d6c"),
	)

	out := buf.String()
	for _, leaked := range []string{"s3cr3t", "app:pw", "abc.def", "dXNlcjpwdw", "eyJzdWIi", "vault:connect", "kari@example.com", "Kari"} {
		assert.NotContains(t, out, leaked)
	}

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "no", entries[0]["language_code"])
	assert.Equal(t, "8d6c", entries[0]["user_id"])
}

func TestNewReplaceAttr_ExtraOptions(t *testing.T) {
	var buf bytes.Buffer
	replace := NewReplaceAttr(masq.WithRegex(regexp.MustCompile(`^NO\d{11}$`)))
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: replace}))

	logger.Info("customer", slog.String("national_id", "NO01019912345"), slog.String("password", "pw"))

	assert.NotContains(t, buf.String(), "NO01019912345")
	assert.NotContains(t, buf.String(), `"pw"`)
}
