package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/logging"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// UserService keeps local user records and identity provider identities in
// step. Every write calls the identity provider first and touches the local
// store only after the remote call succeeded.
type UserService struct {
	users     ports.UserGateway
	languages ports.LanguageGateway
	identity  ports.IdentityProviderUserGateway
	events    *eventSink
	exec      *Executor
	logger    *slog.Logger
}

// UserServiceConfig holds the dependencies of UserService.
type UserServiceConfig struct {
	Users     ports.UserGateway
	Languages ports.LanguageGateway
	Identity  ports.IdentityProviderUserGateway
	Events    ports.EventPublisher
	Flags     ports.FeatureFlags
	Logger    *slog.Logger
}

// NewUserService creates the service. It panics when a gateway is missing.
func NewUserService(cfg UserServiceConfig) *UserService {
	if cfg.Users == nil || cfg.Languages == nil || cfg.Identity == nil {
		panic("app: user service requires user, language and identity provider gateways")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	flags := cfg.Flags
	if flags == nil {
		flags = ports.StaticFlags{}
	}

	logger = logger.With(slog.String("component", "app.UserService"))

	return &UserService{
		users:     cfg.Users,
		languages: cfg.Languages,
		identity:  cfg.Identity,
		events:    newEventSink(cfg.Events, flags, logger),
		exec:      NewExecutor(logger),
		logger:    logger,
	}
}

// userWrite is the working state of a create or update as it moves through
// the executor steps.
type userWrite struct {
	languageCode string
	language     *domain.Language
	user         domain.User
	out          ports.UserOutputPort
	created      bool
}

// CreateUser registers the identity with the provider and then stores the
// local record under the id the provider issued.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput, out ports.UserOutputPort) error {
	op := Operation[*userWrite, uuid.UUID, domain.User]{
		Name: "CreateUser",
		Validate: func(ctx context.Context, w *userWrite) error {
			taken, err := s.users.ExistsByEmail(ctx, w.user.Email)
			if err != nil {
				return fmt.Errorf("checking email: %w", err)
			}

			if taken {
				return domain.NewAlreadyExistsError("User", "email", w.user.Email)
			}

			return s.resolveLanguage(ctx, w)
		},
		Perform: func(ctx context.Context, w *userWrite) (uuid.UUID, error) {
			return s.identity.CreateUser(ctx, w.user, w.languageCode)
		},
		Verify: func(_ context.Context, w *userWrite, issued uuid.UUID) (domain.User, error) {
			if issued == uuid.Nil {
				return domain.User{}, errors.New("identity provider returned an empty user id")
			}

			u := w.user
			u.ID = issued
			u.LanguageID = w.language.ID
			u.RecordVersion = 1

			return u, nil
		},
		Archive: func(ctx context.Context, _ *userWrite, u domain.User) (domain.User, error) {
			saved, err := s.users.Save(ctx, u)
			if err != nil {
				return domain.User{}, err
			}

			return *saved, nil
		},
		OnArchiveFailure: func(ctx context.Context, _ *userWrite, u domain.User, err error) {
			s.events.report(ctx, domain.NewChangeEvent(domain.EventIdentityOrphaned, u.ID, map[string]any{
				"operation": domain.OpCreateUser,
				"reason":    err.Error(),
			}))
		},
		Respond: s.respond,
	}

	w := &userWrite{
		languageCode: in.LanguageCode,
		user: domain.User{
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
		},
		out:     out,
		created: true,
	}

	saved, err := Execute(ctx, s.exec, op, w)
	if err != nil {
		return err
	}

	s.events.publish(ctx, domain.NewChangeEvent(domain.EventUserCreated, saved.ID, nil))

	return nil
}

// UpdateUser rewrites the user at the identity provider and, once that
// succeeded, locally. A remote failure leaves the local record untouched.
func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput, out ports.UserOutputPort) error {
	if in.UserID == uuid.Nil {
		return domain.NewRequiredFieldError("userId")
	}

	op := Operation[*userWrite, struct{}, domain.User]{
		Name: "UpdateUser",
		Validate: func(ctx context.Context, w *userWrite) error {
			existing, err := s.users.FindByID(ctx, w.user.ID)
			if err != nil {
				return fmt.Errorf("finding user: %w", err)
			}

			if w.user.Email != existing.Email {
				taken, err := s.users.ExistsByEmail(ctx, w.user.Email)
				if err != nil {
					return fmt.Errorf("checking email: %w", err)
				}

				if taken {
					return domain.NewAlreadyExistsError("User", "email", w.user.Email)
				}
			}

			if err := s.resolveLanguage(ctx, w); err != nil {
				return err
			}

			w.user.LanguageID = w.language.ID
			w.user.RecordVersion = existing.RecordVersion

			return nil
		},
		Perform: func(ctx context.Context, w *userWrite) (struct{}, error) {
			return struct{}{}, s.identity.UpdateUser(ctx, w.user, w.languageCode)
		},
		Verify: func(_ context.Context, w *userWrite, _ struct{}) (domain.User, error) {
			return w.user, nil
		},
		Archive: func(ctx context.Context, _ *userWrite, u domain.User) (domain.User, error) {
			updated, err := s.users.Update(ctx, u)
			if err != nil {
				return domain.User{}, err
			}

			return *updated, nil
		},
		OnArchiveFailure: func(ctx context.Context, _ *userWrite, u domain.User, err error) {
			s.events.report(ctx, domain.NewChangeEvent(domain.EventIdentityOrphaned, u.ID, map[string]any{
				"operation": domain.OpUpdateUser,
				"reason":    err.Error(),
			}))
		},
		Respond: s.respond,
	}

	w := &userWrite{
		languageCode: in.LanguageCode,
		user: domain.User{
			ID:        in.UserID,
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
		},
		out: out,
	}

	if _, err := Execute(ctx, s.exec, op, w); err != nil {
		return err
	}

	s.events.publish(ctx, domain.NewChangeEvent(domain.EventUserUpdated, in.UserID, nil))

	return nil
}

// DeleteUser removes the local record. The identity provider side is not
// touched here.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return fmt.Errorf("finding user: %w", err)
	}

	if err := s.users.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "user deleted", slog.String("user_id", id.String()))
	s.events.publish(ctx, domain.NewChangeEvent(domain.EventUserDeleted, id, nil))

	return nil
}

// GetUserByID presents a stored user with its language code resolved.
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID, out ports.UserOutputPort) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("finding user: %w", err)
	}

	return s.present(ctx, u, out)
}

// GetUserByEmail presents a stored user looked up by email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string, out ports.UserOutputPort) error {
	if err := requireText("email", email); err != nil {
		return err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("finding user: %w", err)
	}

	return s.present(ctx, u, out)
}

// present resolves the stored language id back to its code. A dangling
// language reference is reported as not found.
func (s *UserService) present(ctx context.Context, u *domain.User, out ports.UserOutputPort) error {
	lang, err := s.languages.FindByID(ctx, u.LanguageID)
	if err != nil {
		return fmt.Errorf("resolving user language: %w", err)
	}

	out.Present(toUserOutput(*u, lang.Code, false))

	return nil
}

func (s *UserService) resolveLanguage(ctx context.Context, w *userWrite) error {
	lang, err := s.languages.FindByCode(ctx, w.languageCode)
	if err != nil {
		return fmt.Errorf("resolving language: %w", err)
	}

	w.language = lang

	return nil
}

// respond presents the caller's language code, not the stored language id.
func (s *UserService) respond(_ context.Context, w *userWrite, u domain.User) {
	w.out.Present(toUserOutput(u, w.languageCode, w.created))
}

func toUserOutput(u domain.User, languageCode string, created bool) ports.UserOutput {
	return ports.UserOutput{
		UserID:       u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: languageCode,
		Created:      created,
	}
}
