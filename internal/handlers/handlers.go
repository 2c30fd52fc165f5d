package handlers

import (
	"photo-culler/internal/session"
)

// Handlers serves the HTTP API for one session.
type Handlers struct {
	session *session.Session
}

// New creates handlers for s.
func New(s *session.Session) *Handlers {
	return &Handlers{session: s}
}
