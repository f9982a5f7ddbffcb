package server

import "sync/atomic"

// Session is the per-connection protocol state.
type Session struct {
	id          string
	initialized atomic.Bool
}

// NewSession creates an uninitialized session.
func NewSession(id string) *Session {
	return &Session{id: id}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Initialized reports whether the client has completed initialization.
func (s *Session) Initialized() bool { return s.initialized.Load() }

// MarkInitialized records the client's initialized notification.
func (s *Session) MarkInitialized() { s.initialized.Store(true) }
