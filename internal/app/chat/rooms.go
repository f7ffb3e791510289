/*
Package chat contains the core presence and message-routing engine of the relay.

This file defines the RoomRouter, the membership index that groups connections
by region. A connection belongs to at most one room at a time; joining while a
member elsewhere leaves the prior room first.

The RoomRouter is not safe for concurrent use; all calls happen on the Hub's
dispatch goroutine.
*/
package chat

// RoomRouter indexes room membership by connection ID.
type RoomRouter struct {
	// members maps region name to the set of member connection IDs.
	members map[string]map[string]struct{}

	// regionOf maps a connection ID to the room it currently occupies.
	regionOf map[string]string
}

// NewRoomRouter returns an empty RoomRouter.
func NewRoomRouter() *RoomRouter {
	return &RoomRouter{
		members:  make(map[string]map[string]struct{}),
		regionOf: make(map[string]string),
	}
}

// Join places connID in the named room, leaving any prior room first.
// It returns the prior room name when the connection actually moved.
func (r *RoomRouter) Join(connID, region string) (string, bool) {
	prev, hadPrev := r.regionOf[connID]
	if hadPrev && prev == region {
		return "", false
	}

	if hadPrev {
		r.remove(connID, prev)
	}

	set, ok := r.members[region]
	if !ok {
		set = make(map[string]struct{})
		r.members[region] = set
	}
	set[connID] = struct{}{}
	r.regionOf[connID] = region

	return prev, hadPrev
}

// Leave removes connID from its room. It returns the room left, if any.
func (r *RoomRouter) Leave(connID string) (string, bool) {
	region, ok := r.regionOf[connID]
	if !ok {
		return "", false
	}

	r.remove(connID, region)
	delete(r.regionOf, connID)

	return region, true
}

// remove drops connID from the region's member set, deleting empty sets.
func (r *RoomRouter) remove(connID, region string) {
	if set, ok := r.members[region]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.members, region)
		}
	}
}

// Region reports the room connID currently occupies.
func (r *RoomRouter) Region(connID string) (string, bool) {
	region, ok := r.regionOf[connID]
	return region, ok
}

// Members returns the connection IDs currently joined to region.
func (r *RoomRouter) Members(region string) []string {
	set := r.members[region]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// Occupancy returns every active room name with its member count.
func (r *RoomRouter) Occupancy() map[string]int {
	counts := make(map[string]int, len(r.members))
	for region, set := range r.members {
		counts[region] = len(set)
	}
	return counts
}
