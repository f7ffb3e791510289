/*
Package chat contains the core presence and message-routing engine of the relay.

This file defines the Registry, the in-memory map of connection identity to
user profile. It enforces case-insensitive nickname uniqueness across active
connections and keeps insertion order for roster snapshots.

The Registry is not safe for concurrent use; all mutation happens on the Hub's
dispatch goroutine.
*/
package chat

import (
	"strings"

	"provchat/internal/app/user"
	"provchat/internal/pkg/errs"
)

// Registry maps live connections to registered profiles.
type Registry struct {
	// byConn maps connection ID to the profile it registered.
	byConn map[string]*user.Profile

	// byNick maps the lowercase nickname to the connection ID holding it.
	byNick map[string]string

	// order records connection IDs in registration order for roster snapshots.
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*user.Profile),
		byNick: make(map[string]string),
	}
}

// Register creates or updates the profile for connID. It fails with
// ErrNicknameInUse when another active connection holds the nickname
// (case-insensitively). Re-registering an already registered connection is an
// update: the previous nickname is released, gender and region are replaced.
// The changed result reports whether any field actually differs, so callers
// can skip roster broadcasts on fully idempotent re-registrations.
func (g *Registry) Register(connID, nickname, gender, region string) (user.Profile, bool, *errs.CustomError) {
	lower := strings.ToLower(nickname)

	if holder, ok := g.byNick[lower]; ok && holder != connID {
		return user.Profile{}, false, errs.NewError(errs.ErrNicknameInUse, nickname)
	}

	if existing, ok := g.byConn[connID]; ok {
		changed := existing.Nickname != nickname ||
			existing.Gender != gender ||
			existing.Region != region

		if oldLower := strings.ToLower(existing.Nickname); oldLower != lower {
			delete(g.byNick, oldLower)
			g.byNick[lower] = connID
		}

		existing.Nickname = nickname
		existing.Gender = gender
		existing.Region = region

		return *existing, changed, nil
	}

	profile := &user.Profile{
		ConnectionID: connID,
		Nickname:     nickname,
		Gender:       gender,
		Region:       region,
	}

	g.byConn[connID] = profile
	g.byNick[lower] = connID
	g.order = append(g.order, connID)

	return *profile, true, nil
}

// ByConnection returns the profile registered by connID, if any.
func (g *Registry) ByConnection(connID string) (user.Profile, bool) {
	profile, ok := g.byConn[connID]
	if !ok {
		return user.Profile{}, false
	}
	return *profile, true
}

// ByNickname resolves a nickname (case-insensitively) to its active profile.
func (g *Registry) ByNickname(nickname string) (user.Profile, bool) {
	connID, ok := g.byNick[strings.ToLower(nickname)]
	if !ok {
		return user.Profile{}, false
	}
	return g.ByConnection(connID)
}

// Remove deletes the profile for connID and releases its nickname.
// It returns the removed profile when one was present.
func (g *Registry) Remove(connID string) (user.Profile, bool) {
	profile, ok := g.byConn[connID]
	if !ok {
		return user.Profile{}, false
	}

	delete(g.byConn, connID)

	lower := strings.ToLower(profile.Nickname)
	if g.byNick[lower] == connID {
		delete(g.byNick, lower)
	}

	for i, id := range g.order {
		if id == connID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}

	return *profile, true
}

// All returns a snapshot of every registered profile in registration order.
func (g *Registry) All() []user.Profile {
	profiles := make([]user.Profile, 0, len(g.order))
	for _, connID := range g.order {
		if profile, ok := g.byConn[connID]; ok {
			profiles = append(profiles, *profile)
		}
	}
	return profiles
}

// Len reports the number of registered profiles.
func (g *Registry) Len() int {
	return len(g.byConn)
}
