//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/jsamuelsen/customer-service/internal/adapters/cache"
	"github.com/jsamuelsen/customer-service/internal/adapters/clients"
	"github.com/jsamuelsen/customer-service/internal/adapters/clients/acl"
	httpserver "github.com/jsamuelsen/customer-service/internal/adapters/http"
	"github.com/jsamuelsen/customer-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/customer-service/internal/adapters/persistence"
	"github.com/jsamuelsen/customer-service/internal/app"
	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/config"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// stack is the service assembled in-process over sqlite, miniredis and a
// fake Connect.
type stack struct {
	URL     string
	Connect *fakeConnect
	Events  *recordingPublisher
}

type stackOptions struct {
	authEnabled bool
}

func newStack(t testing.TB, opts stackOptions) *stack {
	t.Helper()

	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := persistence.Open(ctx, sqlite.Open(":memory:"), config.DatabaseConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
		AutoMigrate:  true,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	seedReferenceData(t, db)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	redisCache := cache.NewRedisCache(redisClient, "it:")

	countries := app.ScopedCountries(cache.NewCachedCountries(persistence.NewCountryRepository(db.DB), redisCache, time.Minute, logger))
	languages := app.ScopedLanguages(cache.NewCachedLanguages(persistence.NewLanguageRepository(db.DB), redisCache, time.Minute, logger))
	contextTypes := cache.NewCachedContextTypes(persistence.NewContextTypeRepository(db.DB), redisCache, time.Minute, logger)

	connect := newFakeConnect(t)

	connectHTTP, err := clients.New(&clients.Config{
		BaseURL:     connect.URL + "/v1.0",
		ServiceName: "connect",
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     2,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   50,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Logger: logger,
	})
	require.NoError(t, err)

	identity := acl.NewConnectUserClient(acl.ConnectUserClientConfig{
		Client:    connectHTTP,
		Languages: languages,
		Logger:    logger,
	})

	events := &recordingPublisher{}
	flags := ports.StaticFlags{
		ports.FlagForbidOrphanDelete: true,
		ports.FlagPublishEvents:      true,
	}

	users := persistence.NewUserRepository(db.DB)

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(db))
	require.NoError(t, registry.Register(redisCache))
	require.NoError(t, registry.Register(identity))

	srv := httpserver.New(&config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           0,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		IdleTimeout:    5 * time.Second,
		MaxRequestSize: 1 << 20,
	}, logger)

	httpserver.SetupRouter(srv.Engine(), httpserver.RouterConfig{
		ServiceName: "customer-service-it",
		AuthConfig:  &config.AuthConfig{Enabled: opts.authEnabled},
		Timeout:     5 * time.Second,
		HealthHandler: handlers.NewHealthHandler(registry,
			handlers.NewBuildInfo("it", "local", time.Now().UTC().Format(time.RFC3339))),
		CustomerHandler: handlers.NewCustomerHandler(app.NewCustomerService(app.CustomerServiceConfig{
			Customers:    persistence.NewCustomerRepository(db.DB),
			Contexts:     persistence.NewContextRepository(db.DB),
			ContextTypes: contextTypes,
			Countries:    countries,
			Events:       events,
			Flags:        flags,
			Logger:       logger,
		}), countries),
		UserHandler: handlers.NewUserHandler(app.NewUserService(app.UserServiceConfig{
			Users:     users,
			Languages: languages,
			Identity:  identity,
			Events:    events,
			Flags:     flags,
			Logger:    logger,
		})),
		RoleHandler: handlers.NewRoleHandler(app.NewRoleService(persistence.NewRoleRepository(db.DB), logger)),
		AdminHandler: handlers.NewAdminHandler(app.NewReconcileService(app.ReconcileServiceConfig{
			Users:       users,
			Identity:    identity,
			PageSize:    2,
			Concurrency: 2,
			Logger:      logger,
		})),
	})

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)

	return &stack{URL: ts.URL, Connect: connect, Events: events}
}

func seedReferenceData(t testing.TB, db *persistence.Database) {
	t.Helper()

	require.NoError(t, db.DB.Create([]persistence.ContextTypeModel{
		{ID: uuid.New(), Name: string(domain.ContextTypeCustomer)},
		{ID: uuid.New(), Name: string(domain.ContextTypeCompany)},
	}).Error)
	require.NoError(t, db.DB.Create([]persistence.CountryModel{
		{ID: uuid.New(), Code: "NO", Name: "Norway"},
		{ID: uuid.New(), Code: "SE", Name: "Sweden"},
	}).Error)
	require.NoError(t, db.DB.Create([]persistence.LanguageModel{
		{ID: uuid.New(), Code: "en", Name: "English"},
		{ID: uuid.New(), Code: "no", Name: "Norwegian"},
	}).Error)
}

// connectUser mirrors the identity document Connect serves.
type connectUser struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	CountryCode       string    `json:"country_code"`
	PreferredLanguage string    `json:"preferred_language"`
}

// fakeConnect is an in-memory Connect users API. A queued failure is
// answered to the next request instead of the normal response.
type fakeConnect struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[uuid.UUID]connectUser
	failures []fakeFailure
	requests []string
}

type fakeFailure struct {
	status int
	code   string
}

func newFakeConnect(t testing.TB) *fakeConnect {
	f := &fakeConnect{users: make(map[uuid.UUID]connectUser)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1.0/users", f.create)
	mux.HandleFunc("GET /v1.0/users/{id}", f.get)
	mux.HandleFunc("PUT /v1.0/users/{id}", f.update)
	mux.HandleFunc("GET /v1.0/search/users", f.search)

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)

		if len(f.failures) > 0 {
			fail := f.failures[0]
			f.failures = f.failures[1:]
			f.mu.Unlock()

			writeJSON(w, fail.status, map[string]string{"error_code": fail.code})

			return
		}
		f.mu.Unlock()

		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)

	return f
}

// FailNext queues an error response.
func (f *fakeConnect) FailNext(status int, code string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failures = append(f.failures, fakeFailure{status: status, code: code})
}

// Forget removes an identity, as if deleted directly at Connect.
func (f *fakeConnect) Forget(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.users, id)
}

// Requests returns the requests received so far as "METHOD path".
func (f *fakeConnect) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.requests...)
}

func (f *fakeConnect) create(w http.ResponseWriter, r *http.Request) {
	var u connectUser
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_code": "INVALID_BODY"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, u.Email) {
			writeJSON(w, http.StatusConflict, map[string]string{"error_code": "EMAIL_TAKEN"})
			return
		}
	}

	u.ID = uuid.New()
	f.users[u.ID] = u

	writeJSON(w, http.StatusCreated, u)
}

func (f *fakeConnect) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_code": "INVALID_ID"})
		return
	}

	f.mu.Lock()
	u, ok := f.users[id]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error_code": "USER_NOT_FOUND"})
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (f *fakeConnect) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_code": "INVALID_ID"})
		return
	}

	var patch connectUser
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_code": "INVALID_BODY"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error_code": "USER_NOT_FOUND"})
		return
	}

	u.FirstName, u.LastName = patch.FirstName, patch.LastName
	u.CountryCode, u.PreferredLanguage = patch.CountryCode, patch.PreferredLanguage
	f.users[id] = u

	writeJSON(w, http.StatusOK, u)
}

func (f *fakeConnect) search(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			writeJSON(w, http.StatusOK, []connectUser{u})
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// recordingPublisher keeps published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, e)

	return nil
}

// Types returns the event types published so far.
func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}

	return types
}
