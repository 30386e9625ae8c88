package ws

import (
	"context"
	"encoding/json"

	websocketdto "quickdrop/internal/dispatch-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

const (
	kindCourier = "courier"
	kindOrder   = "order"
	kindAdmin   = "admin"
)

const egressBuffer = 32

type EventHandle func(c *Client, e websocketdto.Event) error

type Client struct {
	ctx       context.Context
	cancel    context.CancelFunc
	conn      *websocket.Conn
	hub       *Hub
	egress    chan websocketdto.Event
	kind      string
	subjectID string
	authed    bool
}

func newClient(ctx context.Context, conn *websocket.Conn, hub *Hub, kind, subjectID string) *Client {
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		ctx:       ctx,
		cancel:    cancel,
		conn:      conn,
		hub:       hub,
		egress:    make(chan websocketdto.Event, egressBuffer),
		kind:      kind,
		subjectID: subjectID,
	}
}

// ReadPump drives the connection's inbound protocol. The first event must
// authenticate; a failed auth closes the connection.
func (c *Client) ReadPump(handle EventHandle) {
	defer func() {
		c.hub.Unsubscribe(c)
		c.cancel()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var e websocketdto.Event
		if err := json.Unmarshal(payload, &e); err != nil {
			c.sendError("malformed event")
			continue
		}

		if err := handle(c, e); err != nil {
			c.sendError(err.Error())
			if !c.authed {
				return
			}
		}
	}
}

// WritePump is the single writer for the connection, so every subscriber
// sees this connection's messages in publish order.
func (c *Client) WritePump() {
	for {
		select {
		case <-c.ctx.Done():
			c.conn.Close()
			return
		case event, ok := <-c.egress:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.cancel()
				return
			}
		}
	}
}

// send enqueues without blocking; false means the egress buffer was full
// and the message is dropped for this subscriber.
func (c *Client) send(e websocketdto.Event) bool {
	select {
	case c.egress <- e:
		return true
	default:
		return false
	}
}

func (c *Client) sendError(msg string) {
	data, err := json.Marshal(websocketdto.ErrorMessage{Message: msg})
	if err != nil {
		return
	}
	c.send(websocketdto.Event{Type: websocketdto.EventError, Data: data})
}
