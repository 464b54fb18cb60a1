// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const MaxRoomNameLen = 64

var (
	ErrRoomNameEmpty   = errors.New("room name empty")
	ErrRoomNameTooLong = errors.New("room name too long")

	ErrRoomNotFound    = errors.New("room does not exist")
	ErrInvalidPassword = errors.New("invalid password")
	ErrDuplicateName   = errors.New("room name already exists")
)

type RoomID string

// Room is the catalog entry for one broadcast domain. An empty Password
// means the room is open; IsPrivate only affects id generation, never
// access control.
type Room struct {
	ID        RoomID `json:"id"`
	Name      string `json:"name"`
	Password  string `json:"-"`
	IsPrivate bool   `json:"is_private"`
}

// NewRoom validates the display name and builds an entry without an id;
// the catalog assigns one on registration.
func NewRoom(name, password string, private bool) (*Room, error) {
	if len(name) == 0 {
		return nil, ErrRoomNameEmpty
	}
	if len(name) > MaxRoomNameLen {
		return nil, ErrRoomNameTooLong
	}
	return &Room{Name: name, Password: password, IsPrivate: private}, nil
}

func (r *Room) HasPassword() bool { return r.Password != "" }
