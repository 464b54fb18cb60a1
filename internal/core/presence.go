package core

import (
	"encoding/json"
	"time"

	"github.com/junnushon/voice-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

type userCountMsg struct {
	Type      string `json:"type"`
	UserCount int    `json:"user_count"`
}

// startNotifierLocked launches the presence loop for a room unless one is
// already running. Caller holds h.mu.
func (h *Hub) startNotifierLocked(id domain.RoomID) {
	if _, running := h.notifiers[id]; running {
		return
	}
	h.notifiers[id] = struct{}{}
	go h.notifyLoop(id)
	log.Debug().Str("module", "core.presence").Str("room", string(id)).Msg("notifier started")
}

// notifyLoop pushes the live member count to every member each interval.
// It keeps ticking while the room exists, including at count zero during
// the grace period, and exits once the membership set is gone or the hub
// shuts down.
func (h *Hub) notifyLoop(id domain.RoomID) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}

		h.mu.Lock()
		set, ok := h.members[id]
		if !ok {
			delete(h.notifiers, id)
			h.mu.Unlock()
			log.Info().Str("module", "core.presence").Str("room", string(id)).Msg("notifier stopped")
			return
		}
		targets := make([]Conn, 0, len(set))
		for _, c := range set {
			targets = append(targets, c)
		}
		h.mu.Unlock()

		payload, err := json.Marshal(userCountMsg{Type: "user_count", UserCount: len(targets)})
		if err != nil {
			continue
		}
		for _, c := range targets {
			if err := c.TrySend(payload); err != nil {
				log.Warn().Err(err).Str("module", "core.presence").Str("room", string(id)).
					Msg("count push failed")
			}
		}
	}
}
