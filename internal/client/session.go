package client

import (
	"sync"
	"time"
)

// sessionCache keeps the panel session cookie alive across invocations for a
// short TTL. Opt-in: re-authenticating on every call stays the default.
type sessionCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	cookie    string
	expiresAt time.Time
}

func newSessionCache(ttl time.Duration) *sessionCache {
	return &sessionCache{ttl: ttl}
}

func (s *sessionCache) get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cookie == "" || time.Now().After(s.expiresAt) {
		return "", false
	}
	return s.cookie, true
}

func (s *sessionCache) put(cookie string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = cookie
	s.expiresAt = time.Now().Add(s.ttl)
}

func (s *sessionCache) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = ""
}
