package domain

import (
	"errors"
	"strings"
)

const MaxRoomIDLen = 128

var (
	ErrRoomIDEmpty   = errors.New("room id empty")
	ErrRoomIDTooLong = errors.New("room id too long")
)

// RoomID is the opaque call identifier taken from the connection path.
type RoomID string

// RoomIDFromPath returns the final non-empty segment of a request path.
func RoomIDFromPath(p string) (RoomID, error) {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return "", ErrRoomIDEmpty
	}
	if len(p) > MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	return RoomID(p), nil
}
