package session

import (
	"context"
	"encoding/gob"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

func init() {
	// go-cache persists items with gob; the concrete value type must be
	// registered for LoadFile to round-trip.
	gob.Register(&Session{})
}

// MemoryStore keeps sessions in process memory, optionally flushed to a
// cache file so they survive a restart. It is the single-instance analogue
// of the browser's durable local storage.
type MemoryStore struct {
	cache    *gocache.Cache
	filePath string
}

// NewMemoryStore creates a store with the given session TTL. If filePath is
// non-empty, previously persisted sessions are loaded and every mutation is
// flushed back to the file.
func NewMemoryStore(ttl time.Duration, filePath string) *MemoryStore {
	c := gocache.New(ttl, 10*time.Minute)
	if filePath != "" {
		// Best effort: a missing or stale file just means a cold start.
		_ = c.LoadFile(filePath)
	}
	return &MemoryStore{cache: c, filePath: filePath}
}

func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.cache.SetDefault(sess.ID, sess)
	return s.persist()
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	sess, ok := v.(*Session)
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return s.persist()
}

func (s *MemoryStore) persist() error {
	if s.filePath == "" {
		return nil
	}
	return s.cache.SaveFile(s.filePath)
}
