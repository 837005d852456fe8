// Package acl is the anti-corruption layer between the service and the
// remote identity provider ("Connect").
//
// Connect's wire model never leaves this package: requests and responses are
// translated to and from domain.User, locale and country codes are derived
// from the local two-letter language code, and every non-2xx answer becomes
// a *domain.ExternalServiceError carrying the status, the provider's
// error_code and the operation name.
package acl
