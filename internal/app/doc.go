// Package app contains the use cases of the customer service.
//
// Responsibilities:
//   - Build and persist customers, users and roles through the gateway ports
//   - Order dual writes so the identity provider is written before the local store
//   - Enforce the tree and reference invariants of the context model
//   - Hand results to the caller's output port
//
// What does NOT belong here:
//   - HTTP and JSON concerns (adapters/http)
//   - SQL and gorm models (adapters/persistence)
//   - Identity provider wire formats (adapters/clients/acl)
package app
