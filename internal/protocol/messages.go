// Package protocol holds the JSON frames exchanged over a call connection.
package protocol

import (
	"encoding/json"

	"github.com/dkeye/callroom/internal/domain"
)

// Inbound frame types.
const (
	TypeJoin         = "join"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeICECandidate = "ice-candidate"
)

// Outbound event types.
const (
	TypeParticipants = "participants"
	TypeUserJoined   = "user-joined"
	TypeUserLeft     = "user-left"
)

const (
	FieldType   = "type"
	FieldTarget = "targetUserId"
	FieldFrom   = "fromUserId"
)

// IsSignaling reports whether t is relayed point-to-point.
func IsSignaling(t string) bool {
	switch t {
	case TypeOffer, TypeAnswer, TypeICECandidate:
		return true
	}
	return false
}

type Envelope struct {
	Type string `json:"type"`
}

type Join struct {
	Type     string `json:"type"`
	UserID   string `json:"userId" validate:"required,max=128"`
	UserName string `json:"userName" validate:"required,max=128"`
	IsHost   bool   `json:"isHost"`
}

// Signal is a relayed frame. Fields keeps every inbound key untouched so the
// payload reaches the target exactly as sent.
type Signal struct {
	Type   string
	Target domain.ParticipantID
	Fields map[string]json.RawMessage
}

// ParseSignal decodes an offer/answer/ice-candidate frame.
// An empty Target means the frame carried no usable targetUserId.
func ParseSignal(data []byte) (*Signal, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	s := &Signal{Fields: fields}
	if raw, ok := fields[FieldType]; ok {
		_ = json.Unmarshal(raw, &s.Type)
	}
	if raw, ok := fields[FieldTarget]; ok {
		var target string
		if err := json.Unmarshal(raw, &target); err == nil {
			s.Target = domain.ParticipantID(target)
		}
	}
	return s, nil
}

// From returns the frame to deliver, stamped with the sender's id.
// A client-supplied fromUserId is overwritten.
func (s *Signal) From(sender domain.ParticipantID) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.Fields)+1)
	for k, v := range s.Fields {
		out[k] = v
	}
	from, err := json.Marshal(string(sender))
	if err != nil {
		return nil, err
	}
	out[FieldFrom] = from
	return json.Marshal(out)
}

type Participants struct {
	Type              string               `json:"type"`
	Participants      []domain.Participant `json:"participants"`
	TotalParticipants int                  `json:"totalParticipants"`
}

func NewParticipants(others []domain.Participant, total int) Participants {
	if others == nil {
		others = []domain.Participant{}
	}
	return Participants{Type: TypeParticipants, Participants: others, TotalParticipants: total}
}

type UserJoined struct {
	Type     string               `json:"type"`
	UserID   domain.ParticipantID `json:"userId"`
	UserName string               `json:"userName"`
	IsHost   bool                 `json:"isHost"`
}

func NewUserJoined(p domain.Participant) UserJoined {
	return UserJoined{Type: TypeUserJoined, UserID: p.ID, UserName: p.Name, IsHost: p.IsHost}
}

type UserLeft struct {
	Type     string               `json:"type"`
	UserID   domain.ParticipantID `json:"userId"`
	UserName string               `json:"userName"`
}

func NewUserLeft(p domain.Participant) UserLeft {
	return UserLeft{Type: TypeUserLeft, UserID: p.ID, UserName: p.Name}
}
