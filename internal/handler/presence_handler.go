/*
Package handler provides the HTTP handlers and routing setup for the relay.

This file serves the read-only presence API. Both endpoints answer from a hub
snapshot, so they observe the same serialized state the dispatch loop does.
*/
package handler

import (
	"net/http"

	"provchat/internal/pkg/resp"
)

// HandlePresence returns the roster of registered users.
func HandlePresence(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := deps.Hub.Presence()
		resp.RespondSuccess(w, r, map[string]any{
			"users": snapshot.Users,
		})
	}
}

// HandleRooms returns every active room with its occupancy.
func HandleRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := deps.Hub.Presence()
		resp.RespondSuccess(w, r, map[string]any{
			"rooms": snapshot.Rooms,
		})
	}
}
