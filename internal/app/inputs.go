package app

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

// Input values are built by constructors that reject missing fields, so a
// use case never sees a half-filled input.

// CreateCustomerInput is the validated input of CreateCustomer.
type CreateCustomerInput struct {
	CustomerID         uuid.UUID
	CountryCode        string
	ParentContextID    *uuid.UUID
	OrganizationNumber string
	Name               string
}

// NewCreateCustomerInput validates a create request. A nil id is replaced by
// a random one.
func NewCreateCustomerInput(
	id *uuid.UUID,
	countryCode string,
	parent *uuid.UUID,
	organizationNumber, name string,
) (CreateCustomerInput, error) {
	if err := requireText("organizationNumber", organizationNumber); err != nil {
		return CreateCustomerInput{}, err
	}

	if err := requireText("name", name); err != nil {
		return CreateCustomerInput{}, err
	}

	customerID := uuid.New()
	if id != nil && *id != uuid.Nil {
		customerID = *id
	}

	return CreateCustomerInput{
		CustomerID:         customerID,
		CountryCode:        strings.TrimSpace(countryCode),
		ParentContextID:    nonNil(parent),
		OrganizationNumber: organizationNumber,
		Name:               name,
	}, nil
}

// UpdateCustomerInput is the validated input of UpdateCustomer.
type UpdateCustomerInput struct {
	CustomerID         uuid.UUID
	CountryCode        string
	ParentContextID    *uuid.UUID
	OrganizationNumber string
	Name               string
}

// NewUpdateCustomerInput validates an update request. The id is required.
func NewUpdateCustomerInput(
	id uuid.UUID,
	countryCode string,
	parent *uuid.UUID,
	organizationNumber, name string,
) (UpdateCustomerInput, error) {
	if id == uuid.Nil {
		return UpdateCustomerInput{}, domain.NewRequiredFieldError("customerId")
	}

	if err := requireText("organizationNumber", organizationNumber); err != nil {
		return UpdateCustomerInput{}, err
	}

	if err := requireText("name", name); err != nil {
		return UpdateCustomerInput{}, err
	}

	return UpdateCustomerInput{
		CustomerID:         id,
		CountryCode:        strings.TrimSpace(countryCode),
		ParentContextID:    nonNil(parent),
		OrganizationNumber: organizationNumber,
		Name:               name,
	}, nil
}

// CreateUserInput is the validated input of CreateUser. It carries no id:
// ids are issued by the identity provider.
type CreateUserInput struct {
	Email        string
	FirstName    string
	LastName     string
	LanguageCode string
}

// NewCreateUserInput validates a create request.
func NewCreateUserInput(email, firstName, lastName, languageCode string) (CreateUserInput, error) {
	err := requireFields(
		"email", email,
		"firstName", firstName,
		"lastName", lastName,
		"languageCode", languageCode,
	)
	if err != nil {
		return CreateUserInput{}, err
	}

	return CreateUserInput{
		Email:        strings.TrimSpace(email),
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: strings.ToLower(strings.TrimSpace(languageCode)),
	}, nil
}

// UpdateUserInput is the validated input of UpdateUser.
type UpdateUserInput struct {
	UserID       uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	LanguageCode string
}

// NewUpdateUserInput validates an update request. An empty or malformed id
// is a caller-contract violation and reported as a validation error.
func NewUpdateUserInput(id, email, firstName, lastName, languageCode string) (UpdateUserInput, error) {
	userID, err := parseID("userId", id)
	if err != nil {
		return UpdateUserInput{}, err
	}

	err = requireFields(
		"email", email,
		"firstName", firstName,
		"lastName", lastName,
		"languageCode", languageCode,
	)
	if err != nil {
		return UpdateUserInput{}, err
	}

	return UpdateUserInput{
		UserID:       userID,
		Email:        strings.TrimSpace(email),
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: strings.ToLower(strings.TrimSpace(languageCode)),
	}, nil
}

// CreateRoleInput is the validated input of CreateRole.
type CreateRoleInput struct {
	Name         string
	InvariantKey string
	Description  string
}

// NewCreateRoleInput validates a create request. Description is optional.
func NewCreateRoleInput(name, invariantKey, description string) (CreateRoleInput, error) {
	if err := requireText("name", name); err != nil {
		return CreateRoleInput{}, err
	}

	if err := requireText("invariantKey", invariantKey); err != nil {
		return CreateRoleInput{}, err
	}

	return CreateRoleInput{Name: name, InvariantKey: invariantKey, Description: description}, nil
}

// UpdateRoleInput is the validated input of UpdateRole.
type UpdateRoleInput struct {
	RoleID       uuid.UUID
	Name         string
	InvariantKey string
	Description  string
}

// NewUpdateRoleInput validates an update request; the id must parse.
func NewUpdateRoleInput(id, name, invariantKey, description string) (UpdateRoleInput, error) {
	roleID, err := parseID("roleId", id)
	if err != nil {
		return UpdateRoleInput{}, err
	}

	in, err := NewCreateRoleInput(name, invariantKey, description)
	if err != nil {
		return UpdateRoleInput{}, err
	}

	return UpdateRoleInput{
		RoleID:       roleID,
		Name:         in.Name,
		InvariantKey: in.InvariantKey,
		Description:  in.Description,
	}, nil
}

// ParseID parses a path identifier, reporting failures as validation errors.
func ParseID(field, raw string) (uuid.UUID, error) {
	return parseID(field, raw)
}

func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, domain.NewRequiredFieldError(field)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationErrorWithValue(field, "must be a valid UUID", raw)
	}

	return id, nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewRequiredFieldError(field)
	}

	return nil
}

// requireFields takes field/value pairs and reports the first blank one.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := requireText(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}

	return nil
}

func nonNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}

	v := *id

	return &v
}
