package vend

import (
	"context"
	"encoding/json"
	"sync"
)

// DefaultLoginPath is the login entry point used for navigation.
const DefaultLoginPath = "/login"

// SessionStore is the single owner of the persisted token and user record.
//
// Values are read from storage once, when the store is created, and written
// through on every change. Storage failures are logged and never returned;
// a store without storage reports no session and ignores writes.
//
// The store keeps an epoch that advances every time the token changes or is
// cleared. Requests capture it at dispatch so late responses from a previous
// session can be dropped.
type SessionStore struct {
	mu        sync.RWMutex
	storage   Storage
	navigator Navigator
	loginPath string
	logger    Logger

	token    string
	hasToken bool
	user     *User
	epoch    uint64
}

// SessionOption customizes a SessionStore.
type SessionOption func(*SessionStore)

// WithNavigator sets the navigator used by Logout and RedirectToLogin.
func WithNavigator(n Navigator) SessionOption {
	return func(s *SessionStore) {
		s.navigator = n
	}
}

// WithLoginPath overrides the login entry point.
func WithLoginPath(path string) SessionOption {
	return func(s *SessionStore) {
		if path != "" {
			s.loginPath = path
		}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l Logger) SessionOption {
	return func(s *SessionStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSessionStore creates a store and loads the persisted session from
// storage. A nil storage models an environment without client storage.
func NewSessionStore(ctx context.Context, storage Storage, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		storage:   storage,
		loginPath: DefaultLoginPath,
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.load(ctx)
	return s
}

func (s *SessionStore) load(ctx context.Context) {
	if s.storage == nil {
		return
	}

	values, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.Error("session load failed", "error", err)
		return
	}

	if token := values[TokenKey]; token != "" {
		s.token = token
		s.hasToken = true
	}

	raw := values[UserKey]
	if raw == "" {
		return
	}

	if !s.hasToken {
		s.logger.Warn("dropping persisted user without token")
		if err := s.storage.Delete(ctx, UserKey); err != nil {
			s.logger.Error("session cleanup failed", "error", err)
		}
		return
	}

	user := &User{}
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		s.logger.Warn("ignoring unreadable persisted user", "error", err)
		return
	}
	s.user = user
}

// Available reports whether the store has a storage medium.
func (s *SessionStore) Available() bool {
	return s != nil && s.storage != nil
}

// Epoch returns the current session epoch.
func (s *SessionStore) Epoch() uint64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// GetToken returns the current token. The boolean is false when there is
// no session.
func (s *SessionStore) GetToken() (string, bool) {
	if !s.Available() {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.hasToken
}

// SetToken stores token, replacing any previous value. An empty token
// clears the session token.
func (s *SessionStore) SetToken(token string) {
	if !s.Available() {
		return
	}
	if token == "" {
		s.ClearToken()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.setTokenLocked(token)
	s.save(map[string]string{TokenKey: token})
}

// ClearToken removes the token. Clearing an empty session is a no-op.
func (s *SessionStore) ClearToken() {
	if !s.Available() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearTokenLocked()
	s.delete(TokenKey)
}

// GetUser returns a copy of the cached user record. No user is reported
// while there is no token.
func (s *SessionStore) GetUser() *User {
	if !s.Available() {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasToken || s.user == nil {
		return nil
	}
	return cloneUser(s.user)
}

// SetUser replaces the cached user record.
func (s *SessionStore) SetUser(user *User) {
	if !s.Available() {
		return
	}
	if user == nil {
		s.ClearUser()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setUserLocked(user)
}

// SetUserIfCurrent stores user only if the session epoch still matches
// epoch. It reports whether the write happened.
func (s *SessionStore) SetUserIfCurrent(epoch uint64, user *User) bool {
	if !s.Available() || user == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasToken || s.epoch != epoch {
		s.logger.Debug("discarding stale user write", "epoch", epoch, "current", s.epoch)
		return false
	}
	s.setUserLocked(user)
	return true
}

// ClearUser removes the cached user record.
func (s *SessionStore) ClearUser() {
	if !s.Available() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.delete(UserKey)
}

// SetSession stores token and user together, token first.
func (s *SessionStore) SetSession(token string, user *User) {
	if !s.Available() || token == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.setTokenLocked(token)
	values := map[string]string{TokenKey: token}

	s.user = nil
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			s.logger.Error("session encode user failed", "error", err)
		} else {
			s.user = cloneUser(user)
			values[UserKey] = string(raw)
		}
	}

	s.save(values)
	if s.user == nil {
		s.delete(UserKey)
	}
}

// IsAuthenticated reports whether a token is present. It does not check
// the token signature or expiry.
func (s *SessionStore) IsAuthenticated() bool {
	_, ok := s.GetToken()
	return ok
}

// Clear removes token and user in a single storage call.
func (s *SessionStore) Clear() {
	if !s.Available() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearTokenLocked()
	s.user = nil
	s.delete(SessionKeys()...)
}

// ClearIfCurrent clears the session only if its epoch still matches epoch.
// It reports whether the session was cleared. A session replaced after
// epoch was captured is left untouched.
func (s *SessionStore) ClearIfCurrent(epoch uint64) bool {
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.logger.Debug("keeping session replaced since epoch", "epoch", epoch, "current", s.epoch)
		return false
	}
	if s.storage == nil {
		return true
	}

	s.clearTokenLocked()
	s.user = nil
	s.delete(SessionKeys()...)
	return true
}

// Logout clears the session and navigates to the login entry point.
func (s *SessionStore) Logout() {
	if s == nil {
		return
	}
	s.Clear()
	s.RedirectToLogin()
}

// RedirectToLogin navigates to the login entry point.
func (s *SessionStore) RedirectToLogin() {
	if s == nil || s.navigator == nil {
		return
	}
	s.navigator.Navigate(s.loginPath)
}

// LoginPath returns the login entry point.
func (s *SessionStore) LoginPath() string {
	return s.loginPath
}

func (s *SessionStore) setTokenLocked(token string) {
	if !s.hasToken || s.token != token {
		s.epoch++
	}
	s.token = token
	s.hasToken = true
}

func (s *SessionStore) clearTokenLocked() {
	if s.hasToken {
		s.epoch++
	}
	s.token = ""
	s.hasToken = false
}

func (s *SessionStore) setUserLocked(user *User) {
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Error("session encode user failed", "error", err)
		return
	}
	s.user = cloneUser(user)
	s.save(map[string]string{UserKey: string(raw)})
}

func (s *SessionStore) save(values map[string]string) {
	if err := s.storage.Save(context.Background(), values); err != nil {
		s.logger.Error("session save failed", "error", err)
	}
}

func (s *SessionStore) delete(keys ...string) {
	if err := s.storage.Delete(context.Background(), keys...); err != nil {
		s.logger.Error("session delete failed", "error", err)
	}
}
