package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/customer-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/customer-service/internal/platform/config"
)

const (
	// ContextKeyClaims is the gin context key for storing extracted claims.
	ContextKeyClaims = "claims"

	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"
	defaultScopesHeader  = "X-User-Scopes"
)

// Scopes checked by the API routes.
const (
	ScopeRead  = "customers:read"
	ScopeWrite = "customers:write"
	ScopeAdmin = "customers:admin"
)

// RoleAdmin passes every guard.
const RoleAdmin = "admin"

// Claims are the caller's identity as forwarded by the API gateway, which
// has already validated the token.
type Claims struct {
	Subject string
	Roles   []string
	Scopes  []string
}

// HasRole reports whether the caller has role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasScope reports whether the caller was granted scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// HasAllScopes reports whether the caller was granted every scope.
func (c *Claims) HasAllScopes(scopes ...string) bool {
	for _, s := range scopes {
		if !c.HasScope(s) {
			return false
		}
	}

	return true
}

// ExtractClaims reads the claims headers named in cfg, falling back to the
// X-User-* defaults. Roles are comma separated, scopes space separated.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader := defaultSubjectHeader
	rolesHeader := defaultRolesHeader
	scopesHeader := defaultScopesHeader

	if cfg != nil {
		subjectHeader = orDefault(cfg.SubjectHeader, subjectHeader)
		rolesHeader = orDefault(cfg.RolesHeader, rolesHeader)
		scopesHeader = orDefault(cfg.ScopesHeader, scopesHeader)
	}

	return &Claims{
		Subject: strings.TrimSpace(c.GetHeader(subjectHeader)),
		Roles:   splitNonEmpty(c.GetHeader(rolesHeader), ","),
		Scopes:  strings.Fields(c.GetHeader(scopesHeader)),
	}
}

// GetClaims retrieves claims from the gin context, nil when absent.
func GetClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ContextKeyClaims); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}

	return nil
}

// RequireAuth rejects requests without a subject.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFor(c, cfg)
		if claims.Subject == "" {
			abortWithUnauthorized(c)
			return
		}

		c.Next()
	}
}

// RequireScopes rejects requests missing any of scopes. Callers with the
// admin role pass.
func RequireScopes(cfg *config.AuthConfig, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFor(c, cfg)
		if !claims.HasRole(RoleAdmin) && !claims.HasAllScopes(scopes...) {
			abortWithForbidden(c, "insufficient permissions: scopes ["+strings.Join(scopes, ", ")+"] required")
			return
		}

		c.Next()
	}
}

// Guard is the per-route check used by the router: an authenticated caller
// holding scopes. With auth disabled it lets every request through.
func Guard(cfg *config.AuthConfig, scopes ...string) gin.HandlerFunc {
	if cfg == nil || !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	auth := RequireAuth(cfg)
	scoped := RequireScopes(cfg, scopes...)

	return func(c *gin.Context) {
		auth(c)
		if c.IsAborted() {
			return
		}

		scoped(c)
	}
}

func claimsFor(c *gin.Context, cfg *config.AuthConfig) *Claims {
	if claims := GetClaims(c); claims != nil {
		return claims
	}

	claims := ExtractClaims(c, cfg)
	c.Set(ContextKeyClaims, claims)

	return claims
}

func abortWithUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "authentication required").WithTraceID(dto.GetTraceID(c)))
}

func abortWithForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponse(dto.ErrorCodeForbidden, message).WithTraceID(dto.GetTraceID(c)))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}

	return v
}

func splitNonEmpty(s, sep string) []string {
	var out []string

	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
