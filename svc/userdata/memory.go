package userdata

import (
	"context"

	"github.com/dmitrymomot/reservekit/pkg/cache"
	"github.com/dmitrymomot/reservekit/svc/refresh"
)

// MemoryStore keeps snapshots in a bounded in-process LRU cache.
type MemoryStore struct {
	lru *cache.LRUCache[string, Snapshot]
}

// NewMemoryStore holds up to capacity snapshots. Pass cache.WithTTL to
// expire them.
func NewMemoryStore(capacity int, opts ...cache.Option) *MemoryStore {
	if capacity <= 0 {
		capacity = 512
	}
	return &MemoryStore{lru: cache.NewLRUCache[string, Snapshot](capacity, opts...)}
}

func (s *MemoryStore) Save(_ context.Context, userID string, snap Snapshot) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	s.lru.Put(storeKey("", userID, snap.Area), snap)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, userID string, area refresh.Area) (Snapshot, error) {
	if userID == "" {
		return Snapshot{}, ErrEmptyUserID
	}
	snap, ok := s.lru.Get(storeKey("", userID, area))
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string, area refresh.Area) error {
	s.lru.Remove(storeKey("", userID, area))
	return nil
}

func (s *MemoryStore) Len() int {
	return s.lru.Len()
}
