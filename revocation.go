package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// NewRevocationStore selects the revocation backend named by settings at
// construction time. The database backend requires a bun.DB; the cache
// backend is returned but fails every operation by design.
func NewRevocationStore(settings Settings, db *bun.DB) (RevocationStore, error) {
	switch settings.RevocationBackend {
	case RevocationBackendMemory:
		return NewMemoryRevocationStore(), nil
	case RevocationBackendDatabase:
		if db == nil {
			return nil, goerrors.New("database revocation backend requires a database handle", goerrors.CategoryBadInput)
		}
		return NewDatabaseRevocationStore(db), nil
	case RevocationBackendCache:
		return UnsupportedRevocationStore{backend: RevocationBackendCache}, nil
	default:
		return nil, invalidSettings(fmt.Sprintf("unknown revocation backend %q", settings.RevocationBackend))
	}
}

// MemoryRevocationStore keeps revoked tokens in a mutex guarded set owned by
// the store value. Construct one per process and share it by reference.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewMemoryRevocationStore returns an empty in-memory revocation store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
	}
}

// IsRevoked reports membership in the revoked set.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[token]
	return ok, nil
}

// Record adds token to the revoked set. Recording a token twice is a no-op.
func (s *MemoryRevocationStore) Record(_ context.Context, token string, expiration time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.revoked[token]; ok {
		return nil
	}
	s.revoked[token] = expiration.UTC()
	return nil
}

// Len returns the number of revoked tokens currently tracked.
func (s *MemoryRevocationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}

// UnsupportedRevocationStore fails every call with
// ErrRevocationStoreUnsupported. It backs configuration values that are
// recognized but not implemented, so misconfiguration surfaces loudly instead
// of silently reporting tokens as not revoked.
type UnsupportedRevocationStore struct {
	backend string
}

var _ RevocationStore = UnsupportedRevocationStore{}

func (s UnsupportedRevocationStore) IsRevoked(context.Context, string) (bool, error) {
	return false, s.err()
}

func (s UnsupportedRevocationStore) Record(context.Context, string, time.Time) error {
	return s.err()
}

func (s UnsupportedRevocationStore) err() error {
	return ErrRevocationStoreUnsupported.Clone().WithMetadata(map[string]any{
		"backend": s.backend,
	})
}
