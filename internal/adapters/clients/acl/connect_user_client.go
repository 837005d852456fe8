package acl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/adapters/clients"
	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/logging"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// ConnectUserClientConfig configures the Connect user adapter.
type ConnectUserClientConfig struct {
	// Client must have its BaseURL set to the versioned Connect API root.
	Client *clients.Client

	// Languages resolves the language of identities read back from Connect.
	// When nil, FindUserByID leaves LanguageID unset.
	Languages ports.LanguageGateway

	Logger *slog.Logger
}

// ConnectUserClient implements ports.IdentityProviderUserGateway against the
// Connect users API.
type ConnectUserClient struct {
	BaseAdapter

	languages ports.LanguageGateway
	logger    *slog.Logger
}

var _ ports.IdentityProviderUserGateway = (*ConnectUserClient)(nil)

// NewConnectUserClient creates the adapter. Panics if Client is nil.
func NewConnectUserClient(cfg ConnectUserClientConfig) *ConnectUserClient {
	if cfg.Client == nil {
		panic("ConnectUserClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ConnectUserClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		languages:   cfg.Languages,
		logger:      logger,
	}
}

// createUserRequest is the body of POST /users.
type createUserRequest struct {
	Email             string `json:"email"`
	CountryCode       string `json:"country_code"`
	PreferredLanguage string `json:"preferred_language"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
}

// updateUserRequest is the body of PUT /users/{id}.
type updateUserRequest struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	CountryCode       string `json:"country_code"`
	PreferredLanguage string `json:"preferred_language"`
}

// connectUser is the identity representation returned by Connect.
type connectUser struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	EmailVerified     bool       `json:"email_verified"`
	Name              string     `json:"name"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	CountryCode       string     `json:"country_code"`
	PreferredLanguage string     `json:"preferred_language"`
	CreatedDate       *time.Time `json:"created_date,omitempty"`
	UpdatedDate       *time.Time `json:"updated_date,omitempty"`
}

// CreateUser registers u at Connect and returns the id Connect issued.
func (c *ConnectUserClient) CreateUser(ctx context.Context, u domain.User, languageCode string) (uuid.UUID, error) {
	c.logger.Log(ctx, logging.LevelTrace, "creating identity",
		slog.String("language", languageCode))

	resp, err := c.Send(ctx, http.MethodPost, "/users", createUserRequest{
		Email:             u.Email,
		CountryCode:       CountryForLanguage(languageCode),
		PreferredLanguage: LocaleForLanguage(languageCode),
		FirstName:         u.FirstName,
		LastName:          u.LastName,
	}, domain.OpCreateUser)
	if err != nil {
		return uuid.Nil, err
	}

	created, err := DecodeResponse[connectUser](resp.Body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %s: %w", c.ServiceName(), domain.OpCreateUser, err)
	}

	c.logger.DebugContext(ctx, "identity created", slog.String("user_id", created.ID.String()))

	return created.ID, nil
}

// UpdateUser rewrites the profile of u.ID at Connect. Email is not sent.
func (c *ConnectUserClient) UpdateUser(ctx context.Context, u domain.User, languageCode string) error {
	resp, err := c.Send(ctx, http.MethodPut, "/users/"+u.ID.String(), updateUserRequest{
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		CountryCode:       CountryForLanguage(languageCode),
		PreferredLanguage: LocaleForLanguage(languageCode),
	}, domain.OpUpdateUser)
	if err != nil {
		return err
	}

	drainAndClose(resp)

	return nil
}

// FindUserByID reads an identity and resolves its preferred language to a
// local language id.
func (c *ConnectUserClient) FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	resp, err := c.Send(ctx, http.MethodGet, "/users/"+id.String(), nil, domain.OpFindUserByID)
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[connectUser](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.ServiceName(), domain.OpFindUserByID, err)
	}

	user := toDomainUser(ext)

	if c.languages != nil {
		lang, err := c.languages.FindByCode(ctx, LanguageForLocale(ext.PreferredLanguage))
		if err != nil {
			return nil, fmt.Errorf("resolving language of identity %s: %w", id, err)
		}

		user.LanguageID = lang.ID
	}

	return user, nil
}

// FindUserByEmail searches Connect by email. It returns nil when nothing
// matches (204 or an empty list); with several matches the first wins.
func (c *ConnectUserClient) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	resp, err := c.Send(ctx, http.MethodGet, "/search/users?email="+url.QueryEscape(email), nil, domain.OpFindUserByEmail)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNoContent {
		drainAndClose(resp)
		return nil, nil
	}

	found, err := DecodeResponse[[]connectUser](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.ServiceName(), domain.OpFindUserByEmail, err)
	}

	users, err := TranslateSlice(*found, func(ext *connectUser) (*domain.User, error) {
		return toDomainUser(ext), nil
	})
	if err != nil || len(users) == 0 {
		return nil, err
	}

	return users[0], nil
}

// Name implements ports.HealthChecker.
func (c *ConnectUserClient) Name() string {
	return c.ServiceName()
}

// Check reports Connect unhealthy while its circuit breaker is open.
func (c *ConnectUserClient) Check(_ context.Context) error {
	if state := c.Client().CircuitState(); state == clients.StateOpen {
		return fmt.Errorf("%s: %w", c.ServiceName(), clients.ErrCircuitOpen)
	}

	return nil
}

func toDomainUser(ext *connectUser) *domain.User {
	return &domain.User{
		ID:        ext.ID,
		Email:     ext.Email,
		FirstName: ext.FirstName,
		LastName:  ext.LastName,
	}
}

func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
