package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/logging"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// ReconcileService compares local users with the identity provider. It only
// reports; it never creates, updates or deletes on either side.
type ReconcileService struct {
	users       ports.UserGateway
	identity    ports.IdentityProviderUserGateway
	pageSize    int
	concurrency int
	logger      *slog.Logger
}

// ReconcileServiceConfig holds the dependencies of ReconcileService.
type ReconcileServiceConfig struct {
	Users       ports.UserGateway
	Identity    ports.IdentityProviderUserGateway
	PageSize    int
	Concurrency int
	Logger      *slog.Logger
}

// NewReconcileService creates the service with page size 100 and
// concurrency 4 unless configured otherwise.
func NewReconcileService(cfg ReconcileServiceConfig) *ReconcileService {
	if cfg.Users == nil || cfg.Identity == nil {
		panic("app: reconcile service requires user and identity provider gateways")
	}

	svc := &ReconcileService{
		users:       cfg.Users,
		identity:    cfg.Identity,
		pageSize:    cfg.PageSize,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
	}

	if svc.pageSize <= 0 {
		svc.pageSize = 100
	}

	if svc.concurrency <= 0 {
		svc.concurrency = 4
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	return svc
}

// SweepUsers checks every local user against the identity provider. Users
// the provider reports as not found are listed in Missing; users whose
// lookup failed for another reason are listed in Failed.
func (s *ReconcileService) SweepUsers(ctx context.Context) (*ports.ReconcileReport, error) {
	logger := logging.FromContextOr(ctx, s.logger).With(slog.String("method", "SweepUsers"))
	report := &ports.ReconcileReport{StartedAt: time.Now()}

	for offset := 0; ; offset += s.pageSize {
		page, err := s.users.List(ctx, offset, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("listing users at offset %d: %w", offset, err)
		}

		if len(page) == 0 {
			break
		}

		checks := make([]func(context.Context) (uuid.UUID, error), len(page))
		for i, u := range page {
			checks[i] = func(ctx context.Context) (uuid.UUID, error) {
				_, err := s.identity.FindUserByID(ctx, u.ID)
				return u.ID, err
			}
		}

		for i, r := range ParallelPartialLimit(ctx, s.concurrency, checks...) {
			report.Checked++

			switch {
			case r.Err == nil:
			case isRemoteNotFound(r.Err):
				report.Missing = append(report.Missing, page[i].ID)
			default:
				report.Failed = append(report.Failed, page[i].ID)
				logger.WarnContext(ctx, "identity lookup failed",
					slog.String("user_id", page[i].ID.String()),
					slog.Any("error", r.Err),
				)
			}
		}

		if len(page) < s.pageSize {
			break
		}
	}

	report.Duration = time.Since(report.StartedAt)

	logger.InfoContext(ctx, "user sweep finished",
		slog.Int("checked", report.Checked),
		slog.Int("missing", len(report.Missing)),
		slog.Int("failed", len(report.Failed)),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

// isRemoteNotFound reports a 404 answered by the provider itself. A local
// not-found raised while translating the identity is a failure, not absence.
func isRemoteNotFound(err error) bool {
	var ext *domain.ExternalServiceError

	return errors.As(err, &ext) && ext.StatusCode == http.StatusNotFound
}
