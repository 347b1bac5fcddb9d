package anubis

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/cricket-auction/internal/domain/user"
)

type cachedPrincipal struct {
	principal user.Principal
	until     time.Time
}

// tokenCache remembers introspection results by token hash. When full it
// drops expired entries, then the one closest to expiry.
type tokenCache struct {
	ttl   time.Duration
	limit int
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]cachedPrincipal
}

// newTokenCache returns a cache holding at most limit principals for ttl.
// A non-positive ttl disables caching; a non-positive limit means unbounded.
func newTokenCache(ttl time.Duration, limit int, clock clockwork.Clock) *tokenCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &tokenCache{ttl: ttl, limit: limit, clock: clock, entries: make(map[string]cachedPrincipal)}
}

func (c *tokenCache) lookup(key string) (user.Principal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return user.Principal{}, false
	}
	if !c.clock.Now().Before(e.until) {
		delete(c.entries, key)
		return user.Principal{}, false
	}
	return e.principal, true
}

func (c *tokenCache) remember(key string, principal user.Principal) {
	if c.ttl <= 0 {
		return
	}
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.limit > 0 {
		c.makeRoom(now)
	}
	c.entries[key] = cachedPrincipal{principal: principal, until: now.Add(c.ttl)}
}

func (c *tokenCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeRoom expects c.mu held.
func (c *tokenCache) makeRoom(now time.Time) {
	if len(c.entries) < c.limit {
		return
	}
	var (
		victim  string
		soonest time.Time
	)
	for k, e := range c.entries {
		if !now.Before(e.until) {
			delete(c.entries, k)
			continue
		}
		if victim == "" || e.until.Before(soonest) {
			victim, soonest = k, e.until
		}
	}
	if len(c.entries) >= c.limit && victim != "" {
		delete(c.entries, victim)
	}
}
