package roblox

import "sync"

// TokenHeader is the header the API uses to issue and receive the anti-forgery token.
const TokenHeader = "x-csrf-token"

// Session holds the credentials shared by every request of a run: the
// session cookie and the most recently issued anti-forgery token.
type Session struct {
	Cookie string

	mu    sync.RWMutex
	token string
}

// NewSession creates a session for the given cookie with no token yet.
func NewSession(cookie string) *Session {
	return &Session{Cookie: cookie}
}

// Token returns the current anti-forgery token, or "" when none was issued.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the stored token. Empty values are ignored so a response
// without the header never clears a token issued earlier.
func (s *Session) SetToken(token string) {
	if s == nil || token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}
