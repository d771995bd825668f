package account

import (
	"context"
	"sync"
	"time"
)

var (
	_ CredentialStore = (*MemCredentialStore)(nil)
	_ TokenStore      = (*MemTokenStore)(nil)
)

// MemCredentialStore keeps accounts in a mutex-guarded map keyed by
// normalized email. Insert is insert-if-absent under the lock, which gives
// the per-email serialization the lifecycle relies on.
type MemCredentialStore struct {
	mu      sync.RWMutex
	byEmail map[string]*Account
	byID    map[string]*Account
}

func NewMemCredentialStore() *MemCredentialStore {
	return &MemCredentialStore{
		byEmail: make(map[string]*Account),
		byID:    make(map[string]*Account),
	}
}

func (s *MemCredentialStore) Insert(ctx context.Context, acct *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[acct.Email]; ok {
		return ErrDuplicateEmail
	}
	cp := acct.Clone()
	s.byEmail[cp.Email] = cp
	s.byID[cp.ID] = cp
	return nil
}

func (s *MemCredentialStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return acct.Clone(), nil
}

func (s *MemCredentialStore) FindByID(ctx context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return acct.Clone(), nil
}

func (s *MemCredentialStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byEmail[email]
	if !ok {
		return ErrNotFound
	}
	acct.PasswordHash = passwordHash
	acct.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemCredentialStore) MarkVerified(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byEmail[email]
	if !ok {
		return ErrNotFound
	}
	acct.Verified = true
	acct.UpdatedAt = time.Now().UTC()
	return nil
}

// MemTokenStore keeps token entries in memory with per-entry expiry stamps.
// Expired entries are dropped on access.
type MemTokenStore struct {
	mu      sync.Mutex
	entries map[string]TokenEntry
	now     func() time.Time
}

func NewMemTokenStore() *MemTokenStore {
	return &MemTokenStore{
		entries: make(map[string]TokenEntry),
		now:     time.Now,
	}
}

func (s *MemTokenStore) Put(ctx context.Context, key, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = TokenEntry{Token: token, ExpiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemTokenStore) Get(ctx context.Context, key string) (TokenEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return TokenEntry{}, ErrNotFound
	}
	if s.now().After(entry.ExpiresAt) {
		delete(s.entries, key)
		return TokenEntry{}, ErrNotFound
	}
	return entry, nil
}

func (s *MemTokenStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
