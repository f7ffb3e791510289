/*
Package chat contains the core presence and message-routing engine of the relay.

This file defines the Client struct, one live WebSocket session. It runs the
read and write pumps, maintains the ping/pong heartbeat, parses inbound
envelopes, and forwards them to the Hub's dispatch loop. The Client performs
no state mutation of its own: everything flows through the Hub.
*/
package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"provchat/internal/pkg/logx"
	"provchat/internal/pkg/randx"
)

const (
	// writeWait is the timeout for a single write to the WebSocket connection.
	writeWait = 10 * time.Second

	// sendChannelBuffer sizes the per-session outbound queue.
	sendChannelBuffer = 256
)

// Client represents one active WebSocket connection.
type Client struct {
	// connID is the opaque unique handle of this connection, never reused
	// while the connection is open.
	connID string

	// hub is the dispatch loop this session reports to.
	hub *Hub

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// send queues marshaled events waiting to go out over the wire.
	send chan []byte

	// closeOnce guards the send channel against double close.
	closeOnce sync.Once

	logger zerolog.Logger
}

// NewClient wraps a freshly upgraded WebSocket connection in a session with a
// new connection ID.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	connID := randx.ConnectionID()

	return &Client{
		connID: connID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendChannelBuffer),
		logger: logx.Logger().With().Str("conn_id", connID).Logger(),
	}
}

// ConnectionID returns the session's opaque connection handle.
func (c *Client) ConnectionID() string {
	return c.connID
}

// ReadPump reads frames from the connection until it fails or closes, feeding
// parsed envelopes to the Hub. It owns the pong deadline handling and reports
// the disconnect when it returns.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Detach(c)
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close after read pump.")
		}
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxFrameBytes)

	if err := c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline.")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Read failed, closing session.")
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid JSON frame.")
			continue
		}

		c.hub.Dispatch(c, env)
	}
}

// WritePump drains the send queue onto the wire and keeps the heartbeat
// alive with periodic pings. It exits when the queue closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)

	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close after write pump.")
		}
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline.")
				return
			}

			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close frame.")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing message.")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping.")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Info().Err(err).Msg("Ping failed, closing session.")
				return
			}
		}
	}
}

// enqueue offers wire bytes to the outbound queue without blocking.
// It reports false when the queue is full or already closed.
func (c *Client) enqueue(data []byte) (queued bool) {
	defer func() {
		if recover() != nil {
			queued = false
		}
	}()

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// shutdown closes the outbound queue exactly once. The write pump delivers
// anything already queued, then sends the close frame and exits; the read
// pump follows when the peer closes or the deadline lapses.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
