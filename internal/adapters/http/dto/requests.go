package dto

import (
	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

// CustomerRequest is the body of POST and PUT /customers. IDContext is only
// read on create; on update the id comes from the path.
type CustomerRequest struct {
	IDContext          string `json:"idContext"          validate:"omitempty,id"`
	CountryCode        string `json:"countryCode"        validate:"omitempty,countrycode"`
	IDContextParent    string `json:"idContextParent"    validate:"omitempty,id"`
	OrganizationNumber string `json:"organizationNumber" validate:"required,notblank"`
	Name               string `json:"name"               validate:"required,notblank"`
}

// Validate rejects a customer that names itself as parent.
func (r *CustomerRequest) Validate() error {
	if r.IDContext != "" && r.IDContext == r.IDContextParent {
		return domain.NewValidationError("idContextParent", "must differ from idContext")
	}

	return nil
}

// ContextID returns the parsed idContext, nil when absent.
func (r *CustomerRequest) ContextID() *uuid.UUID {
	return optionalUUID(r.IDContext)
}

// ParentID returns the parsed idContextParent, nil when absent.
func (r *CustomerRequest) ParentID() *uuid.UUID {
	return optionalUUID(r.IDContextParent)
}

// CustomerResponse is the customer representation returned by every
// customer endpoint.
type CustomerResponse struct {
	IDContext          uuid.UUID  `json:"idContext"`
	Name               string     `json:"name"`
	OrganizationNumber string     `json:"organizationNumber"`
	CountryCode        string     `json:"countryCode"`
	IDContextParent    *uuid.UUID `json:"idContextParent"`
}

// UserRequest is the body of POST and PUT /users.
type UserRequest struct {
	Email        string `json:"email"        validate:"required,email"`
	FirstName    string `json:"firstName"    validate:"required,notblank,max=50"`
	LastName     string `json:"lastName"     validate:"required,notblank,max=50"`
	LanguageCode string `json:"languageCode" validate:"required,langcode"`
}

// UserResponse is the user representation returned by the user endpoints.
type UserResponse struct {
	UserID       uuid.UUID `json:"userId"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	LanguageCode string    `json:"languageCode"`
}

// UserByEmailQuery binds GET /users?email=.
type UserByEmailQuery struct {
	Email string `form:"email" json:"email" validate:"required,email"`
}

// RoleRequest is the body of POST and PUT /roles.
type RoleRequest struct {
	Name         string `json:"name"         validate:"required,notblank,max=255"`
	InvariantKey string `json:"invariantKey" validate:"required,notblank,max=50"`
	Description  string `json:"description"`
}

// RoleResponse is the role representation returned by the role endpoints.
type RoleResponse struct {
	RoleID       uuid.UUID `json:"roleId"`
	Name         string    `json:"name"`
	InvariantKey string    `json:"invariantKey"`
	Description  string    `json:"description,omitempty"`
}

// ReconcileResponse reports a user consistency sweep.
type ReconcileResponse struct {
	Checked    int         `json:"checked"`
	Missing    []uuid.UUID `json:"missing"`
	Failed     []uuid.UUID `json:"failed"`
	StartedAt  string      `json:"startedAt"`
	DurationMS int64       `json:"durationMs"`
}

func optionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return nil
	}

	return &id
}
