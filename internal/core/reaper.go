package core

import (
	"time"

	"github.com/junnushon/voice-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// scheduleReapLocked arms the deletion timer for an empty room, replacing
// any timer already pending for the same id. Caller holds h.mu.
func (h *Hub) scheduleReapLocked(id domain.RoomID) {
	if t, ok := h.reapers[id]; ok {
		t.Stop()
	}
	h.reapers[id] = time.AfterFunc(h.grace, func() { h.reap(id) })
	log.Debug().Str("module", "core.reaper").Str("room", string(id)).
		Dur("grace", h.grace).Msg("deletion scheduled")
}

// cancelReapLocked disarms a pending deletion timer, if any. Caller holds
// h.mu.
func (h *Hub) cancelReapLocked(id domain.RoomID) {
	if t, ok := h.reapers[id]; ok {
		t.Stop()
		delete(h.reapers, id)
	}
}

// reap deletes the room if it is still present and still empty. The
// re-check guards against a join racing the timer as it fires; in that
// case the callback is a no-op.
func (h *Hub) reap(id domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.members[id]
	if !ok || len(set) != 0 {
		return
	}
	delete(h.rooms, id)
	delete(h.members, id)
	delete(h.reapers, id)
	log.Info().Str("module", "core.reaper").Str("room", string(id)).
		Msg("room deleted after grace period")
}
