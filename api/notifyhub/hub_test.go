package notifyhub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/portal-gateway/types"
)

func TestBroadcastReachesClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := New()
	router := gin.New()
	router.GET("/wall/ws", HandleWallWS(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/wall/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(types.WallFrame{Time: "00:00:01", Text: "<hi>"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame types.WallFrame
	require.NoError(t, sonic.Unmarshal(payload, &frame))
	assert.Equal(t, types.WallFrame{Time: "00:00:01", Text: "<hi>"}, frame)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := New()
	assert.NotPanics(t, func() { hub.Broadcast(types.WallFrame{Time: "00:00:00", Text: "x"}) })
	assert.Equal(t, 0, hub.Len())
}

func TestBroadcastDoesNotWaitOnStalledClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := New()
	hub.writeWait = 100 * time.Millisecond
	router := gin.New()
	router.GET("/wall/ws", HandleWallWS(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	// connected but never reads
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/wall/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	frame := types.WallFrame{Time: "00:00:01", Text: strings.Repeat("x", 64*1024)}
	deadline := time.Now().Add(10 * time.Second)
	for hub.Len() > 0 && time.Now().Before(deadline) {
		start := time.Now()
		hub.Broadcast(frame)
		require.Less(t, time.Since(start), 50*time.Millisecond, "Broadcast waited on the client")
	}
	assert.Zero(t, hub.Len(), "stalled client was not dropped")
}
