package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/logging"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// maxTreeDepth bounds the ancestor walk done when a context is re-parented.
const maxTreeDepth = 64

// CustomerService implements the customer use cases. Customers live only in
// the local store; none of these operations call the identity provider.
type CustomerService struct {
	customers    ports.CustomerGateway
	contexts     ports.ContextGateway
	contextTypes ports.ContextTypeGateway
	countries    ports.CountryGateway
	events       *eventSink
	flags        ports.FeatureFlags
	logger       *slog.Logger
}

// CustomerServiceConfig holds the dependencies of CustomerService. Events,
// Flags and Logger are optional.
type CustomerServiceConfig struct {
	Customers    ports.CustomerGateway
	Contexts     ports.ContextGateway
	ContextTypes ports.ContextTypeGateway
	Countries    ports.CountryGateway
	Events       ports.EventPublisher
	Flags        ports.FeatureFlags
	Logger       *slog.Logger
}

// NewCustomerService creates the service. It panics when a gateway is missing.
func NewCustomerService(cfg CustomerServiceConfig) *CustomerService {
	if cfg.Customers == nil || cfg.Contexts == nil || cfg.ContextTypes == nil || cfg.Countries == nil {
		panic("app: customer service requires customer, context, context type and country gateways")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	flags := cfg.Flags
	if flags == nil {
		flags = ports.StaticFlags{}
	}

	logger = logger.With(slog.String("component", "app.CustomerService"))

	return &CustomerService{
		customers:    cfg.Customers,
		contexts:     cfg.Contexts,
		contextTypes: cfg.ContextTypes,
		countries:    cfg.Countries,
		events:       newEventSink(cfg.Events, flags, logger),
		flags:        flags,
		logger:       logger,
	}
}

// CreateCustomer creates the context row backing a new customer and
// presents it with created set.
func (s *CustomerService) CreateCustomer(ctx context.Context, in CreateCustomerInput, out ports.CustomerOutputPort) error {
	logger := logging.FromContextOr(ctx, s.logger).With(
		slog.String("method", "CreateCustomer"),
		slog.String("customer_id", in.CustomerID.String()),
	)

	if err := s.ensureNewID(ctx, in.CustomerID); err != nil {
		return err
	}

	if in.ParentContextID != nil {
		if err := s.ensureParentExists(ctx, *in.ParentContextID); err != nil {
			return err
		}
	}

	customerType, err := s.contextTypes.FindByName(ctx, domain.ContextTypeCustomer)
	if err != nil {
		return fmt.Errorf("resolving customer context type: %w", err)
	}

	countryID, err := s.resolveCountry(ctx, in.CountryCode, in.ParentContextID, nil)
	if err != nil {
		return err
	}

	row := domain.Context{
		ID:                 in.CustomerID,
		ContextTypeID:      customerType.ID,
		ParentContextID:    in.ParentContextID,
		CountryID:          countryID,
		Name:               in.Name,
		OrganizationNumber: in.OrganizationNumber,
	}

	customer, err := s.customers.Save(ctx, row)
	if err != nil {
		return fmt.Errorf("saving customer: %w", err)
	}

	logger.DebugContext(ctx, "customer created")
	s.events.publish(ctx, domain.NewChangeEvent(domain.EventCustomerCreated, customer.ID(), contextData(customer.Context)))

	out.Present(customer, &customer.Context, true)

	return nil
}

// GetCustomer presents the customer and its backing context.
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID, out ports.CustomerOutputPort) error {
	customer, row, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	out.Present(customer, row, false)

	return nil
}

// UpdateCustomer fully replaces the context row of an existing customer.
// The context type is the only field kept from the stored row.
func (s *CustomerService) UpdateCustomer(ctx context.Context, in UpdateCustomerInput, out ports.CustomerOutputPort) error {
	logger := logging.FromContextOr(ctx, s.logger).With(
		slog.String("method", "UpdateCustomer"),
		slog.String("customer_id", in.CustomerID.String()),
	)

	customer, existing, err := s.load(ctx, in.CustomerID)
	if err != nil {
		return err
	}

	if in.ParentContextID != nil {
		if err := s.ensureParentExists(ctx, *in.ParentContextID); err != nil {
			return err
		}

		if err := s.ensureNoCycle(ctx, in.CustomerID, *in.ParentContextID); err != nil {
			return err
		}
	}

	countryID, err := s.resolveCountry(ctx, in.CountryCode, in.ParentContextID, &existing.CountryID)
	if err != nil {
		return err
	}

	row := domain.Context{
		ID:                 in.CustomerID,
		ContextTypeID:      existing.ContextTypeID,
		ParentContextID:    in.ParentContextID,
		CountryID:          countryID,
		Name:               in.Name,
		OrganizationNumber: in.OrganizationNumber,
	}

	updated, err := s.customers.Save(ctx, row)
	if err != nil {
		return fmt.Errorf("saving customer: %w", err)
	}

	logger.DebugContext(ctx, "customer updated")
	s.events.publish(ctx, domain.NewChangeEvent(domain.EventCustomerUpdated, updated.ID(), contextData(updated.Context)))

	out.Present(customer, &updated.Context, false)

	return nil
}

// DeleteCustomer removes the customer's context row. Child contexts are left
// in place unless the forbid-orphan flag is on, in which case the delete is
// refused while children exist.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID, out ports.CustomerOutputPort) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return fmt.Errorf("finding customer: %w", err)
	}

	if s.flags.IsEnabled(ctx, ports.FlagForbidOrphanDelete, false) {
		children, err := s.contexts.CountChildren(ctx, id)
		if err != nil {
			return fmt.Errorf("counting child contexts: %w", err)
		}

		if children > 0 {
			return domain.NewForbiddenError("delete customer",
				fmt.Sprintf("%d child contexts still reference %s", children, id))
		}
	}

	if err := s.customers.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}

	s.events.publish(ctx, domain.NewChangeEvent(domain.EventCustomerDeleted, id, nil))

	out.PresentDeleted()

	return nil
}

// load fetches a customer and its context; a customer without a context is
// reported as not found.
func (s *CustomerService) load(ctx context.Context, id uuid.UUID) (*domain.Customer, *domain.Context, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("finding customer: %w", err)
	}

	row, err := s.contexts.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("finding customer context: %w", err)
	}

	return customer, row, nil
}

func (s *CustomerService) ensureNewID(ctx context.Context, id uuid.UUID) error {
	_, err := s.customers.FindByID(ctx, id)
	switch {
	case err == nil:
		return domain.NewAlreadyExistsError("Customer", "id", id.String())
	case !domain.IsNotFound(err):
		return fmt.Errorf("checking customer id: %w", err)
	}

	taken, err := s.contexts.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("checking context id: %w", err)
	}

	if taken {
		return domain.NewAlreadyExistsError("Context", "id", id.String())
	}

	return nil
}

func (s *CustomerService) ensureParentExists(ctx context.Context, parentID uuid.UUID) error {
	ok, err := s.contexts.ExistsByID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("checking parent context: %w", err)
	}

	if !ok {
		return domain.NewNotFoundError("parent context", parentID.String())
	}

	return nil
}

// ensureNoCycle walks up from parentID and rejects the move if it reaches id.
func (s *CustomerService) ensureNoCycle(ctx context.Context, id, parentID uuid.UUID) error {
	current := parentID

	for range maxTreeDepth {
		if current == id {
			return domain.NewValidationErrorWithValue("idContextParent",
				"a context cannot be placed below itself", parentID.String())
		}

		node, err := s.contexts.FindByID(ctx, current)
		if err != nil {
			return fmt.Errorf("walking context ancestors: %w", err)
		}

		if !node.HasParent() {
			return nil
		}

		current = *node.ParentContextID
	}

	return domain.NewValidationError("idContextParent", "context tree is deeper than supported")
}

// resolveCountry picks the country by code, then from the parent context,
// then from fallback. Without any of them the missing parent is reported.
func (s *CustomerService) resolveCountry(
	ctx context.Context,
	code string,
	parentID *uuid.UUID,
	fallback *uuid.UUID,
) (uuid.UUID, error) {
	if code != "" {
		country, err := s.countries.FindByCode(ctx, code)
		if err != nil {
			return uuid.Nil, fmt.Errorf("resolving country: %w", err)
		}

		return country.ID, nil
	}

	if parentID != nil {
		parent, err := s.contexts.FindByID(ctx, *parentID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("inheriting country from parent: %w", err)
		}

		return parent.CountryID, nil
	}

	if fallback != nil {
		return *fallback, nil
	}

	return uuid.Nil, domain.NewNotFoundByError("parent context", "", "")
}

func contextData(c domain.Context) map[string]any {
	data := map[string]any{
		"name":               c.Name,
		"organizationNumber": c.OrganizationNumber,
		"countryId":          c.CountryID.String(),
	}
	if c.HasParent() {
		data["parentContextId"] = c.ParentContextID.String()
	}

	return data
}
