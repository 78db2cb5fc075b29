package middleware

import (
	"net/http"

	"github.com/escuela-dev/escuela/internal/types"
	"github.com/gin-gonic/gin"
)

// RequireRole must run after AuthMiddleware. The role checked is the one
// currently stored for the user, not the one baked into the token.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)
		user, ok := value.(AuthenticatedUser)

		if !exists || !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token inválido o no proporcionado."})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Permiso denegado."})
	}
}
