package auth

import (
	"encoding/base64"
	"sync"
)

// Session holds the Basic-Auth credential token used by outgoing requests.
// The zero value is an unauthenticated session.
type Session struct {
	mu       sync.RWMutex
	username string
	token    string
}

// NewSession creates a session, logged in when both values are non-empty
func NewSession(username, password string) *Session {
	s := &Session{}
	s.SetCredentials(username, password)
	return s
}

// SetCredentials encodes and stores the token for username:password.
// Calling it with empty values clears the session (logout).
func (s *Session) SetCredentials(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username == "" && password == "" {
		s.username = ""
		s.token = ""
		return
	}

	s.username = username
	s.token = base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// Clear drops the stored token
func (s *Session) Clear() {
	s.SetCredentials("", "")
}

// Token returns the encoded credential and whether one is set
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Username returns the user the token was built for, if any
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Authenticated reports whether a token is set
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Header returns the Authorization header value, or "" when unauthenticated
func (s *Session) Header() string {
	token, ok := s.Token()
	if !ok {
		return ""
	}
	return "Basic " + token
}
