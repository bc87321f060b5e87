package api

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore persists the auth token between runs of the desk.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session is the auth context shared by every outgoing call. It is created at
// startup, updated on login/logout and read before each request.
type Session struct {
	store    TokenStore
	onLogout func()
	now      func() time.Time
	mu       sync.Mutex
}

func NewSession(store TokenStore, onLogout func()) *Session {
	return &Session{store: store, onLogout: onLogout, now: time.Now}
}

// OnLogout replaces the callback run when the token is invalidated.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = fn
	s.mu.Unlock()
}

// Token returns the stored token, or "" when there is none. A JWT whose exp
// claim has passed is treated like a 401.
func (s *Session) Token() string {
	s.mu.Lock()
	token, err := s.store.Load()
	s.mu.Unlock()
	if err != nil || token == "" {
		return ""
	}
	if s.expired(token) {
		s.Invalidate()
		return ""
	}
	return token
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(token)
}

// Invalidate clears the token and sends the desk back to login.
func (s *Session) Invalidate() {
	s.mu.Lock()
	_ = s.store.Clear()
	fn := s.onLogout
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Session) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// opaque tokens are left to the server
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.Save("")
}
