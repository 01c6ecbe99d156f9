package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"milano/pkg/logger"
	"milano/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	MsgNewOrders     = "new_orders"
	MsgAlertSilenced = "alert_silenced"

	writeWait = 5 * time.Second
)

// Message is what admin clients receive.
type Message struct {
	Type     string     `json:"type"`
	OrderIDs []uint     `json:"orderIds,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
}

// AlertHub pushes new-order alerts to connected admin dashboards. Every write
// happens on the Run goroutine.
type AlertHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan services.Alert
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}

	mu    sync.Mutex
	count int
}

var _ services.AlertSink = (*AlertHub)(nil)

func NewAlertHub() *AlertHub {
	return &AlertHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan services.Alert, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Publish queues an alert. A full queue drops it; dashboards still poll.
func (h *AlertHub) Publish(a services.Alert) {
	select {
	case h.broadcast <- a:
	default:
		logger.Default().WithField("orders", a.OrderIDs).Warn("alert queue full, dropping")
	}
}

func (h *AlertHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Run serves register/unregister/broadcast until ctx is done.
func (h *AlertHub) Run(ctx context.Context) {
	var (
		active  *Message
		timer   *time.Timer
		silence <-chan time.Time
	)
	defer func() {
		close(h.done)
		if timer != nil {
			timer.Stop()
		}
		for conn := range h.clients {
			conn.Close()
		}
		h.setCount(0)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case conn := <-h.register:
			h.clients[conn] = true
			h.setCount(len(h.clients))
			// late joiners still see an alert that is sounding
			if active != nil {
				h.write(conn, *active)
			}

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				h.setCount(len(h.clients))
			}

		case a := <-h.broadcast:
			until := a.Until
			active = &Message{Type: MsgNewOrders, OrderIDs: a.OrderIDs, Until: &until}
			h.send(*active)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(time.Until(a.Until))
			silence = timer.C

		case <-silence:
			active, silence = nil, nil
			h.send(Message{Type: MsgAlertSilenced})
		}
	}
}

func (h *AlertHub) send(msg Message) {
	for conn := range h.clients {
		if !h.write(conn, msg) {
			delete(h.clients, conn)
			conn.Close()
		}
	}
	h.setCount(len(h.clients))
}

func (h *AlertHub) write(conn *websocket.Conn, msg Message) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		logger.Default().WithError(err).Warn("ws write error")
		return false
	}
	return true
}

func (h *AlertHub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades an authenticated admin request: /admin/orders/ws
func (h *AlertHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Warn("ws upgrade error")
		return
	}
	select {
	case h.register <- conn:
		go h.drain(conn)
	case <-h.done:
		conn.Close()
	}
}

// drain discards client frames and unregisters once the peer goes away.
func (h *AlertHub) drain(conn *websocket.Conn) {
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
