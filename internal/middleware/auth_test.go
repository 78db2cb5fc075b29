package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/auth"
	"github.com/escuela-dev/escuela/internal/middleware"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/testutil"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.SetupDB(t)

	whoami := func(ctx *gin.Context) {
		user := ctx.MustGet(types.ContextUserKey).(middleware.AuthenticatedUser)
		ctx.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	}

	r := gin.New()
	r.GET("/private", middleware.AuthMiddleware(), whoami)
	r.GET("/admin", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleAdmin), whoami)
	r.GET("/ws", middleware.WebSocketAuthMiddleware(), whoami)
	r.GET("/unguarded", middleware.RequireRole(types.RoleAdmin), whoami)
	return r
}

func get(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	r := newEngine(t)

	w := get(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Error, header inexistente!")

	w = get(r, "/private", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Bearer {token}")

	w = get(r, "/private", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r := newEngine(t)
	user := testutil.CreateUser(t, "ana", types.RoleStudent)

	w := get(r, "/private", testutil.Bearer(t, user))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 1, "role": "alumno"}`, w.Body.String())
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	r := newEngine(t)
	user := testutil.CreateUser(t, "ana", types.RoleStudent)

	claims := auth.Claims{
		Username: user.Username,
		UserID:   user.ID,
		Role:     types.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testutil.JWTSecret))
	require.NoError(t, err)

	w := get(r, "/private", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), auth.ErrTokenExpired.Error())
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	r := newEngine(t)
	user := testutil.CreateUser(t, "ana", types.RoleStudent)
	token := testutil.Token(t, user)

	claims, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	require.NoError(t, auth.Revoke(t.Context(), claims.ID, claims.ExpiresAt.Time))

	w := get(r, "/private", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsDeletedUser(t *testing.T) {
	r := newEngine(t)
	user := testutil.CreateUser(t, "ana", types.RoleStudent)
	bearer := testutil.Bearer(t, user)

	require.NoError(t, db.DB.Delete(&models.User{}, user.ID).Error)

	w := get(r, "/private", bearer)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleUsesStoredRole(t *testing.T) {
	r := newEngine(t)
	user := testutil.CreateUser(t, "ana", types.RoleStudent)
	bearer := testutil.Bearer(t, user)

	w := get(r, "/admin", bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message": "Permiso denegado."}`, w.Body.String())

	require.NoError(t, db.DB.Model(&models.UserDetail{}).Where("id = ?", user.UserDetailID).Update("type", "Administrador").Error)

	w = get(r, "/admin", bearer)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	r := newEngine(t)

	w := get(r, "/unguarded", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenQueryOnlyOnWebSocketRoute(t *testing.T) {
	r := newEngine(t)
	token := testutil.Token(t, testutil.CreateUser(t, "ana", types.RoleStudent))

	w := get(r, "/ws?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/private?token="+token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
