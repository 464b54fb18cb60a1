package core

import "github.com/junnushon/voice-chat/internal/domain"

// Frame is one raw text payload as read from or written to a transport.
type Frame []byte

// Conn is a member's transport endpoint.
// Owned by the adapter; the adapter must Close() it. TrySend must never
// block, so a slow recipient cannot stall a fan-out batch.
type Conn interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats for one fan-out.
type PublishResult struct {
	SentTo  int
	Dropped int
}

// RoomInfo is the read-only listing view of a room (no password material,
// no transport fields).
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	Name        string        `json:"name"`
	HasPassword bool          `json:"has_password"`
	IsPrivate   bool          `json:"is_private"`
	MemberCount int           `json:"user_count"`
}
