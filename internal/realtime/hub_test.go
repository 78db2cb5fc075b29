package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub *Hub, userID uint) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ws", func(ctx *gin.Context) {
		hub.Serve(ctx, userID)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func waitForConnections(t *testing.T, hub *Hub, userID uint, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.Connections(userID) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPublishReachesUserSockets(t *testing.T) {
	hub := NewHub()
	url := newTestServer(t, hub, 42)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var welcome Event
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "connected", welcome.Type)

	waitForConnections(t, hub, 42, 1)

	delivered := hub.Publish(42, Event{Type: "message", Message: map[string]string{"content": "hola"}})
	assert.Equal(t, 1, delivered)

	var got struct {
		Type    string            `json:"type"`
		Message map[string]string `json:"message"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "message", got.Type)
	assert.Equal(t, "hola", got.Message["content"])

	assert.Equal(t, 0, hub.Publish(7, Event{Type: "message"}))
}

func TestSocketUnregistersOnClose(t *testing.T) {
	hub := NewHub()
	url := newTestServer(t, hub, 9)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	var welcome Event
	require.NoError(t, conn.ReadJSON(&welcome))
	waitForConnections(t, hub, 9, 1)

	require.NoError(t, conn.Close())
	waitForConnections(t, hub, 9, 0)
}

func TestCheckOrigin(t *testing.T) {
	hub := NewHub()
	hub.AllowOrigins([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "http://localhost:5173")
	assert.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, hub.checkOrigin(req))
}
