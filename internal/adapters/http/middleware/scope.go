package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "github.com/jsamuelsen/customer-service/internal/app/context"
)

// RequestScope gives every request its own lookup memo. See
// app.ScopedCountries.
func RequestScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(appctx.WithContext(c.Request.Context(), appctx.New()))
		c.Next()
	}
}
