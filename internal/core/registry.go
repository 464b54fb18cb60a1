package core

import (
	"sort"

	"github.com/junnushon/voice-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join admits conn to the room under the given member id. A pending
// deletion timer for the room is cancelled and a presence notifier is
// started if none runs. A member id already present is replaced and the
// displaced connection closed, so a reconnecting client wins over its
// stale socket.
func (h *Hub) Join(id domain.RoomID, member domain.MemberID, password string, conn Conn) error {
	h.mu.Lock()
	room, ok := h.rooms[id]
	if !ok {
		h.mu.Unlock()
		return domain.ErrRoomNotFound
	}
	if room.HasPassword() && room.Password != password {
		h.mu.Unlock()
		return domain.ErrInvalidPassword
	}
	set := h.members[id]
	displaced := set[member]
	set[member] = conn
	h.cancelReapLocked(id)
	h.startNotifierLocked(id)
	h.mu.Unlock()

	if displaced != nil {
		displaced.Close()
		log.Warn().Str("module", "core.registry").
			Str("room", string(id)).Str("member", string(member)).
			Msg("displaced previous connection")
	}
	log.Info().Str("module", "core.registry").
		Str("room", string(id)).Str("member", string(member)).
		Msg("member joined")
	return nil
}

// Leave removes the member if it is still bound to conn; the teardown of
// a session whose connection was displaced by a reconnect must not evict
// the fresh binding. A nil conn removes unconditionally. Removing the
// last member arms the room's deletion timer. Reports whether an entry
// was removed; unknown rooms and members are a no-op.
func (h *Hub) Leave(id domain.RoomID, member domain.MemberID, conn Conn) bool {
	h.mu.Lock()
	set, ok := h.members[id]
	if !ok {
		h.mu.Unlock()
		return false
	}
	current, present := set[member]
	if !present {
		h.mu.Unlock()
		return false
	}
	if conn != nil && current != conn {
		h.mu.Unlock()
		log.Debug().Str("module", "core.registry").
			Str("room", string(id)).Str("member", string(member)).
			Msg("stale leave ignored, member rebound")
		return false
	}
	delete(set, member)
	if len(set) == 0 {
		h.scheduleReapLocked(id)
	}
	h.mu.Unlock()

	log.Info().Str("module", "core.registry").
		Str("room", string(id)).Str("member", string(member)).
		Msg("member left")
	return true
}

// MemberIDs returns the room's member ids sorted, or false when the room
// is gone.
func (h *Hub) MemberIDs(id domain.RoomID) ([]string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.members[id]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, string(m))
	}
	sort.Strings(out)
	return out, true
}

func (h *Hub) MemberCount(id domain.RoomID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.members[id])
}

// CheckPassword applies the same rule as Join without admitting anyone:
// a room with no password accepts any supplied value.
func (h *Hub) CheckPassword(id domain.RoomID, password string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if room.HasPassword() && room.Password != password {
		return domain.ErrInvalidPassword
	}
	return nil
}
