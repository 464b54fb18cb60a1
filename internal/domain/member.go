package domain

import "errors"

const MaxMemberIDLen = 36

var (
	ErrMemberIDEmpty   = errors.New("member id empty")
	ErrMemberIDTooLong = errors.New("member id too long")
)

// MemberID is caller-supplied and unique within a room at any instant.
type MemberID string

// ParseMemberID avoids raw conversions in adapters and keeps the limits
// in one place.
func ParseMemberID(raw string) (MemberID, error) {
	if len(raw) == 0 {
		return "", ErrMemberIDEmpty
	}
	if len(raw) > MaxMemberIDLen {
		return "", ErrMemberIDTooLong
	}
	return MemberID(raw), nil
}
