package bridge

import (
	"log/slog"
	"sync"
)

// Session hands the initial image to a loader at most once.
type Session struct {
	mu        sync.Mutex
	load      func([]byte) error
	delivered bool
	log       *slog.Logger
}

// NewSession creates a session that passes the first delivery to load.
func NewSession(load func([]byte) error, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{load: load, log: log}
}

// Deliver passes data to the loader if nothing was delivered before. It
// reports whether the delivery was accepted; a rejected delivery is logged
// and otherwise ignored.
func (s *Session) Deliver(data []byte) (bool, error) {
	s.mu.Lock()
	if s.delivered {
		s.mu.Unlock()
		s.log.Warn("ignoring repeated image delivery", "bytes", len(data))
		return false, nil
	}
	s.delivered = true
	s.mu.Unlock()
	return true, s.load(data)
}

// Delivered reports whether the one delivery has happened.
func (s *Session) Delivered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivered
}
