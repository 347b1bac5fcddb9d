package anubis

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/cricket-auction/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCache_RememberAndExpire(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	cache := newTokenCache(20*time.Second, 10, clock)
	cache.remember("k1", user.Principal{UserID: "auctioneer-1"})

	got, ok := cache.lookup("k1")
	require.True(t, ok)
	assert.Equal(t, "auctioneer-1", got.UserID)

	clock.Advance(20 * time.Second)
	_, ok = cache.lookup("k1")
	assert.False(t, ok)
	assert.Zero(t, cache.size())
}

func TestTokenCache_DisabledWithoutTTL(t *testing.T) {
	t.Parallel()

	cache := newTokenCache(0, 10, clockwork.NewFakeClock())
	cache.remember("k1", user.Principal{UserID: "u-1"})
	_, ok := cache.lookup("k1")
	assert.False(t, ok)
}

func TestTokenCache_EvictsClosestToExpiry(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	cache := newTokenCache(time.Minute, 2, clock)
	cache.remember("k1", user.Principal{UserID: "u-1"})
	clock.Advance(time.Second)
	cache.remember("k2", user.Principal{UserID: "u-2"})
	clock.Advance(time.Second)
	cache.remember("k3", user.Principal{UserID: "u-3"})

	assert.Equal(t, 2, cache.size())
	_, ok := cache.lookup("k1")
	assert.False(t, ok)
	_, ok = cache.lookup("k3")
	assert.True(t, ok)
}

func TestTokenCache_RefreshDoesNotEvict(t *testing.T) {
	t.Parallel()

	cache := newTokenCache(time.Minute, 2, clockwork.NewFakeClock())
	cache.remember("k1", user.Principal{UserID: "u-1"})
	cache.remember("k2", user.Principal{UserID: "u-2"})
	cache.remember("k2", user.Principal{UserID: "u-2b"})

	assert.Equal(t, 2, cache.size())
	got, ok := cache.lookup("k2")
	require.True(t, ok)
	assert.Equal(t, "u-2b", got.UserID)
}
