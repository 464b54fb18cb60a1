package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/junnushon/voice-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// CreateRoom registers room metadata together with its empty membership
// set in one step. Public rooms get the next decimal id from a counter
// that never reissues a deleted room's id; private rooms get a
// time-salted 8-character hash. The fresh room is empty, so its deletion
// timer is armed immediately and a never-joined room is reclaimed after
// the grace period.
func (h *Hub) CreateRoom(name, password string, private bool) (*domain.Room, error) {
	room, err := domain.NewRoom(name, password, private)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.rooms {
		if existing.Name == name {
			return nil, domain.ErrDuplicateName
		}
	}
	if private {
		room.ID = hashRoomID(name)
	} else {
		h.nextPublicID++
		room.ID = domain.RoomID(strconv.FormatUint(h.nextPublicID, 10))
	}
	h.rooms[room.ID] = room
	h.members[room.ID] = make(map[domain.MemberID]Conn)
	h.scheduleReapLocked(room.ID)

	log.Info().Str("module", "core.catalog").
		Str("room", string(room.ID)).Str("name", name).Bool("private", private).
		Msg("room created")
	out := *room
	return &out, nil
}

// hashRoomID derives an opaque id from the name plus the current
// high-resolution timestamp. Collisions are treated as negligible.
func hashRoomID(name string) domain.RoomID {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%d", name, time.Now().UnixNano())))
	return domain.RoomID(hex.EncodeToString(sum[:])[:8])
}

// RoomMeta returns a copy of the catalog entry for id.
func (h *Hub) RoomMeta(id domain.RoomID) (domain.Room, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[id]
	if !ok {
		return domain.Room{}, false
	}
	return *room, true
}

// ListRooms reports every room with its live member count, ordered by id.
func (h *Hub) ListRooms() []RoomInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]RoomInfo, 0, len(h.rooms))
	for id, room := range h.rooms {
		out = append(out, RoomInfo{
			ID:          id,
			Name:        room.Name,
			HasPassword: room.HasPassword(),
			IsPrivate:   room.IsPrivate,
			MemberCount: len(h.members[id]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return lessRoomID(out[i].ID, out[j].ID) })
	return out
}

// lessRoomID orders public rooms by creation (numeric id), ahead of
// private hash ids, which keep plain string order.
func lessRoomID(a, b domain.RoomID) bool {
	ai, aerr := strconv.ParseUint(string(a), 10, 64)
	bi, berr := strconv.ParseUint(string(b), 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
