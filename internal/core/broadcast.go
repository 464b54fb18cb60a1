package core

import (
	"encoding/json"

	"github.com/junnushon/voice-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

const chatType = "chat"

// Publish fans frame out to every current member of the room except the
// sender. Non-JSON frames are dropped with a warning and the sender stays
// connected. Objects tagged "chat" are re-serialized so every recipient
// sees canonical formatting; other JSON passes through verbatim. A failed
// send is logged and skipped, never aborting the rest of the batch. A
// room deleted mid-flight makes the call a no-op.
func (h *Hub) Publish(id domain.RoomID, sender Conn, frame Frame) PublishResult {
	out, ok := normalizeFrame(frame)
	if !ok {
		log.Warn().Str("module", "core.broadcast").Str("room", string(id)).
			Msg("dropping malformed frame")
		return PublishResult{}
	}

	h.mu.Lock()
	set, exists := h.members[id]
	if !exists {
		h.mu.Unlock()
		log.Debug().Str("module", "core.broadcast").Str("room", string(id)).
			Msg("room gone, frame dropped")
		return PublishResult{}
	}
	targets := make([]Conn, 0, len(set))
	for _, c := range set {
		if c != sender {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	res := PublishResult{}
	for _, c := range targets {
		if err := c.TrySend(out); err != nil {
			res.Dropped++
			log.Warn().Err(err).Str("module", "core.broadcast").Str("room", string(id)).
				Msg("send failed, recipient skipped")
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.broadcast").Str("room", string(id)).
		Int("sent_to", res.SentTo).Int("dropped", res.Dropped).
		Msg("broadcast result")
	return res
}

// normalizeFrame rejects non-JSON input and re-serializes chat objects.
// Values ride through as json.RawMessage, so the round trip only touches
// key order, never content.
func normalizeFrame(frame Frame) (Frame, bool) {
	if !json.Valid(frame) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(frame, &obj); err != nil {
		// Valid JSON that is not an object: relay as-is.
		return frame, true
	}
	var typ string
	if raw, ok := obj["type"]; ok {
		_ = json.Unmarshal(raw, &typ)
	}
	if typ != chatType {
		return frame, true
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return frame, true
	}
	return out, true
}
