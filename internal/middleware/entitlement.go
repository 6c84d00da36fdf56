package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/minkhant-dev/piecerate-api/internal/models"
	"github.com/minkhant-dev/piecerate-api/internal/service"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
	"github.com/minkhant-dev/piecerate-api/pkg/response"
)

// Entitlement re-checks the client's subscription on every request so a
// trial that lapses mid-session stops working without waiting for the
// token to expire. Verdicts are cached by the auth service.
func Entitlement(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if err := authService.VerifyEntitlement(c.Request.Context(), claims.ClientID); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
