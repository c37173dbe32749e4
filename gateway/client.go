package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"chat-server/domain/event"
	"chat-server/observability"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// envelope is the wire format in both directions:
// {"event": "<name>", "data": <payload>}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// client owns one websocket connection. It implements contract.EventSink so
// the routers can deliver to it without knowing about websockets. Outbound
// events are buffered; a client that cannot drain its buffer within the send
// timeout loses the event rather than stalling room fan-out.
type client struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	sendTimeout time.Duration
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

func newClient(id string, conn *websocket.Conn, bufferSize int, sendTimeout time.Duration, log *slog.Logger) *client {
	ctx, cancel := context.WithCancel(context.Background())
	return &client{
		id:          id,
		conn:        conn,
		send:        make(chan []byte, bufferSize),
		sendTimeout: sendTimeout,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Consume marshals the event into its envelope and queues it for the write
// pump. Called concurrently by broadcast and private delivery paths.
func (c *client) Consume(ctx context.Context, e event.ServerEvent) error {
	env := outEnvelope{Event: e.EventName(), Data: e}
	if _, ok := e.(event.StopTyping); ok {
		env.Data = nil
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.sendTimeout):
		observability.DroppedEventsTotal.Inc()
		c.log.Warn("outbound buffer full, event dropped", "conn_id", c.id, "event", e.EventName())
		return nil
	}
}

// readPump reads client frames and hands them to the dispatcher until the
// connection errors or closes. Runs in the HTTP handler goroutine.
func (c *client) readPump(dispatch func(ctx context.Context, connID string, raw []byte)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("unexpected close", "conn_id", c.id, "error", err)
			}
			return
		}
		dispatch(c.ctx, c.id, raw)
	}
}

// writePump drains the outbound buffer to the socket and keeps the
// connection alive with pings. Runs in its own goroutine per connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close releases the connection. Safe to call more than once; the send
// channel is never closed so late broadcasts cannot panic, they fail on the
// cancelled context instead.
func (c *client) close() {
	c.cancel()
	_ = c.conn.Close()
}
