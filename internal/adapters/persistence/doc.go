// Package persistence implements the store gateways with gorm over
// PostgreSQL.
//
// Customers are rows of the contexts table whose context type is Customer;
// there is no separate customer table. Users and roles carry a
// record_version column that Update checks and advances in the same
// statement.
package persistence
