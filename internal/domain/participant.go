// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"unicode/utf8"
)

// Participant limits count characters, not bytes.
const (
	MaxParticipantIDLen = 128
	MaxDisplayNameLen   = 128
)

var (
	ErrParticipantIDEmpty   = errors.New("participant id empty")
	ErrParticipantIDTooLong = errors.New("participant id too long")
	ErrDisplayNameEmpty     = errors.New("display name empty")
	ErrDisplayNameTooLong   = errors.New("display name too long")
)

type ParticipantID string

// Participant is the identity a client declares in its join frame.
// It is taken as given; nothing here checks it against a user store.
type Participant struct {
	ID     ParticipantID `json:"userId"`
	Name   string        `json:"userName"`
	IsHost bool          `json:"isHost"`
}

// NewParticipant is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewParticipant(id, name string, isHost bool) (*Participant, error) {
	switch {
	case id == "":
		return nil, ErrParticipantIDEmpty
	case utf8.RuneCountInString(id) > MaxParticipantIDLen:
		return nil, ErrParticipantIDTooLong
	case name == "":
		return nil, ErrDisplayNameEmpty
	case utf8.RuneCountInString(name) > MaxDisplayNameLen:
		return nil, ErrDisplayNameTooLong
	}
	return &Participant{ID: ParticipantID(id), Name: name, IsHost: isHost}, nil
}
