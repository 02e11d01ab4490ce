package core

import "github.com/dkeye/callroom/internal/domain"

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"member_count"`
}

// RoomDirectory maps a room to the connections joined to it.
// A room exists only while it has at least one member.
type RoomDirectory interface {
	Join(room domain.RoomID, id ConnectionID)
	// Leave reports how many members remain and whether the room still exists.
	Leave(room domain.RoomID, id ConnectionID) (remaining int, exists bool)
	Members(room domain.RoomID) []ConnectionID
	Exists(room domain.RoomID) bool
	List() []RoomInfo
	Len() int
}
