package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/auth"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthenticatedUser struct {
	ID        uint
	Username  string
	Role      string
	FirstName string
	LastName  string
	TokenID   string
	ExpiresAt time.Time
}

// AuthMiddleware accepts only the Authorization header.
func AuthMiddleware() gin.HandlerFunc {
	return authenticate(false)
}

// WebSocketAuthMiddleware also accepts ?token= since browsers cannot set
// headers on a websocket handshake.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return authenticate(true)
}

func bearerToken(ctx *gin.Context, allowQuery bool) (string, string) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		if allowQuery {
			if token := ctx.Query("token"); token != "" {
				return token, ""
			}
		}
		return "", "Error, header inexistente!"
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", "El header Authorization debe tener el formato Bearer {token}"
	}

	return parts[1], ""
}

func authenticate(allowQuery bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, problem := bearerToken(ctx, allowQuery)

		if problem != "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": problem})
			return
		}

		claims, err := auth.VerifyJWT(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}

		revoked, err := auth.IsRevoked(ctx.Request.Context(), claims.ID)

		if err != nil {
			zap.S().Errorw("revocation lookup failed", "error", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor."})
			return
		}

		if revoked {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "La sesión fue cerrada. Inicie sesión nuevamente."})
			return
		}

		var user models.User

		if err := db.DB.Preload("UserDetail").First(&user, claims.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				zap.S().Errorw("failed to load authenticated user", "user_id", claims.UserID, "error", err)
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No estás autorizado o el token es inválido."})
			return
		}

		authUser := AuthenticatedUser{
			ID:        user.ID,
			Username:  user.Username,
			Role:      strings.ToLower(user.UserDetail.Type),
			FirstName: user.UserDetail.FirstName,
			LastName:  user.UserDetail.LastName,
			TokenID:   claims.ID,
		}
		if claims.ExpiresAt != nil {
			authUser.ExpiresAt = claims.ExpiresAt.Time
		}

		ctx.Set(types.ContextUserKey, authUser)
		ctx.Next()
	}
}
