/*
Package handler provides the HTTP handlers and routing setup for the relay.

This file contains HandleWebSocket: handshake rate limiting, connection
upgrade, and the start of the session's pump goroutines. Registration happens
afterwards over the socket itself, via the USER_INFO event.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"provchat/internal/app/chat"
	"provchat/internal/pkg/errs"
	"provchat/internal/pkg/limiter"
	"provchat/internal/pkg/logx"
	"provchat/internal/pkg/resp"
)

// HandleWebSocket upgrades the request to a WebSocket connection and attaches
// a new unregistered session to the hub.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Hub, conn)
		deps.Hub.Attach(client)

		logx.Info("WebSocket connection established", "conn_id", client.ConnectionID())

		go client.WritePump()
		client.ReadPump()
	}
}
