// Package cache holds the in-process TTL cache placed in front of the roster
// repositories.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

var ErrNilLoader = errors.New("cache: nil loader")

type item struct {
	value any
	until time.Time // zero when the store has no ttl
}

func (i item) live(now time.Time) bool {
	return i.until.IsZero() || now.Before(i.until)
}

// Store caches loader results by key. Concurrent misses on the same key
// share one load.
type Store struct {
	ttl   time.Duration
	clock clockwork.Clock
	group singleflight.Group

	mu    sync.RWMutex
	items map[string]item
}

// NewStore returns a store whose entries live for ttl. A ttl of zero keeps
// entries until the process exits.
func NewStore(ttl time.Duration) *Store {
	return NewStoreWithClock(ttl, nil)
}

func NewStoreWithClock(ttl time.Duration, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{ttl: ttl, clock: clock, items: make(map[string]item)}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || !it.live(s.clock.Now()) {
		return nil, false
	}
	return it.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	it := item{value: value}
	now := s.clock.Now()
	if s.ttl > 0 {
		it.until = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = it
	for k, existing := range s.items {
		if !existing.live(now) {
			delete(s.items, k)
		}
	}
}

// Len reports the number of entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// GetOrLoad returns the cached value for key or runs load once for all
// concurrent callers. Failed loads are not cached. A caller whose ctx ends
// stops waiting; the shared load keeps running for the others.
func (s *Store) GetOrLoad(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if load == nil {
		return nil, ErrNilLoader
	}
	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		if v, ok := s.Get(ctx, key); ok {
			return v, nil
		}
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
