package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"milano/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*AlertHub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewAlertHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestAlertHub_BroadcastAndSilence(t *testing.T) {
	hub, url := startHub(t)
	a, b := dial(t, url), dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	now := time.Now()
	hub.Publish(services.Alert{OrderIDs: []uint{7, 8}, RaisedAt: now, Until: now.Add(200 * time.Millisecond)})

	for _, conn := range []*websocket.Conn{a, b} {
		msg := read(t, conn)
		assert.Equal(t, MsgNewOrders, msg.Type)
		assert.Equal(t, []uint{7, 8}, msg.OrderIDs)
		require.NotNil(t, msg.Until)
	}
	for _, conn := range []*websocket.Conn{a, b} {
		assert.Equal(t, MsgAlertSilenced, read(t, conn).Type)
	}
}

func TestAlertHub_LateJoinerAndDisconnect(t *testing.T) {
	hub, url := startHub(t)
	first := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	now := time.Now()
	hub.Publish(services.Alert{OrderIDs: []uint{3}, RaisedAt: now, Until: now.Add(2 * time.Second)})
	assert.Equal(t, MsgNewOrders, read(t, first).Type)

	late := dial(t, url)
	msg := read(t, late)
	assert.Equal(t, MsgNewOrders, msg.Type)
	assert.Equal(t, []uint{3}, msg.OrderIDs)

	require.NoError(t, late.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}
