package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/escuela-dev/escuela/internal/config"
	"github.com/escuela-dev/escuela/internal/router"
	"github.com/escuela-dev/escuela/internal/testutil"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.SetupDB(t)

	core, logs := observer.New(zapcore.DebugLevel)
	cfg := &config.Config{StaticDir: t.TempDir(), AllowedOrigins: []string{"http://localhost:3000"}}

	return router.NewRouter(cfg, zap.New(core)), logs
}

func assertNotLogged(t *testing.T, logs *observer.ObservedLogs, secret string) {
	t.Helper()
	require.NotZero(t, logs.Len())

	for _, entry := range logs.All() {
		assert.NotContains(t, entry.Message, secret)
		for key, value := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(value), secret, "field %q of %q", key, entry.Message)
		}
	}
}

func TestAccessLogRedactsWebSocketToken(t *testing.T) {
	r, logs := newObservedRouter(t)
	token := testutil.Token(t, testutil.CreateUser(t, "alu", types.RoleStudent))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages/ws?token="+token, nil))

	assertNotLogged(t, logs, token)

	entries := logs.FilterMessage("/messages/ws").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "token=REDACTED", entries[0].ContextMap()["query"])
}

func TestPanicLogRedactsAuthorization(t *testing.T) {
	r, logs := newObservedRouter(t)
	token := testutil.Token(t, testutil.CreateUser(t, "alu", types.RoleStudent))

	r.GET("/boom", func(*gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom?token="+token, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assertNotLogged(t, logs, token)
}
