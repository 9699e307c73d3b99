// Package memory provides in-memory store implementations for testing.
package memory

import (
	"context"
	"sync"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore
// for testing. It mirrors the SQLite store's single-slot semantics.
type SessionStore struct {
	mu      sync.RWMutex
	session *domain.UserSession
	pending *domain.PendingAuthorization
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// SaveSession stores the user session, replacing any prior one.
func (s *SessionStore) SaveSession(ctx context.Context, session *domain.UserSession) error {
	if session == nil || session.AccessToken == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

// GetSession retrieves the stored session.
func (s *SessionStore) GetSession(ctx context.Context) (*domain.UserSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, domain.ErrNotFound
	}
	copied := *s.session
	return &copied, nil
}

// DeleteSession removes the stored session.
func (s *SessionStore) DeleteSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// SavePending stores the in-flight authorization attempt.
func (s *SessionStore) SavePending(ctx context.Context, pending *domain.PendingAuthorization) error {
	if pending == nil || pending.State == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *pending
	s.pending = &copied
	return nil
}

// GetPending retrieves the in-flight authorization attempt.
func (s *SessionStore) GetPending(ctx context.Context) (*domain.PendingAuthorization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return nil, domain.ErrNotFound
	}
	copied := *s.pending
	return &copied, nil
}

// DeletePending removes the in-flight authorization attempt.
func (s *SessionStore) DeletePending(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	return nil
}

// Close releases the store (no-op for memory store).
func (s *SessionStore) Close() error {
	return nil
}
