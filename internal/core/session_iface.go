package core

// ConnectionID identifies one accepted transport session.
// Generated server-side at accept time and never reused.
type ConnectionID string
