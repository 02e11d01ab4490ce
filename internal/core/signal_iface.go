package core

import "errors"

// Frame is a raw text payload, one JSON object per frame.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues without blocking and reports why it could not.
	TrySend(Frame) error
	Close()
}

var (
	// ErrBackpressure means the recipient's outbound queue is full.
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)
