package domain

import (
	"github.com/google/uuid"
)

// ContextTypeName is the well-known name of a context type row.
type ContextTypeName string

// Context types seeded in the reference table.
const (
	ContextTypeCustomer     ContextTypeName = "Customer"
	ContextTypeCompany      ContextTypeName = "Company"
	ContextTypeCompanyGroup ContextTypeName = "CompanyGroup"
)

// ContextType is reference data discriminating Context rows.
type ContextType struct {
	ID   uuid.UUID
	Name ContextTypeName
}

// Context is a node in the organizational tree.
//
// ParentContextID is a weak reference: it is validated to exist when written
// but deleting the parent does not touch the child.
type Context struct {
	ID                 uuid.UUID
	ContextTypeID      uuid.UUID
	ParentContextID    *uuid.UUID
	CountryID          uuid.UUID
	Name               string
	OrganizationNumber string
}

// HasParent reports whether the context hangs below another context.
func (c Context) HasParent() bool {
	return c.ParentContextID != nil && *c.ParentContextID != uuid.Nil
}

// Customer is a Context whose type resolved to ContextTypeCustomer. It shares
// the primary key of the backing row and carries no fields of its own.
type Customer struct {
	Context Context
}

// NewCustomer wraps a context row as a customer view.
func NewCustomer(c Context) *Customer {
	return &Customer{Context: c}
}

// ID returns the identity shared with the backing context.
func (c *Customer) ID() uuid.UUID {
	return c.Context.ID
}
