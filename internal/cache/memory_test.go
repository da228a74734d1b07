package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwalden/farescout/internal/cache"
	"github.com/nwalden/farescout/internal/flights"
)

// fakeClock is an adjustable time source for expiry tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func sampleResult(price int) *flights.SearchResult {
	return &flights.SearchResult{
		Flights: []flights.FlightOffer{{ID: "gf-DEL-DXB-1", Price: price, Currency: "USD"}},
		Count:   1,
		Source:  flights.SourceDirect,
	}
}

func normalizedQuery() flights.SearchQuery {
	return flights.SearchQuery{
		Origin:      "DEL",
		Destination: "DXB",
		DepartDate:  "2026-03-15",
		Adults:      1,
		CabinClass:  flights.CabinEconomy,
	}
}

func TestKey_Deterministic(t *testing.T) {
	q1 := normalizedQuery()
	q2 := normalizedQuery()
	assert.Equal(t, cache.Key(q1), cache.Key(q2))
}

func TestKey_FieldSensitivity(t *testing.T) {
	base := normalizedQuery()

	variants := map[string]flights.SearchQuery{}
	q := base
	q.Origin = "BOM"
	variants["origin"] = q
	q = base
	q.Destination = "LHR"
	variants["destination"] = q
	q = base
	q.DepartDate = "2026-03-16"
	variants["departDate"] = q
	q = base
	q.ReturnDate = "2026-03-22"
	variants["returnDate"] = q
	q = base
	q.Adults = 2
	variants["adults"] = q
	q = base
	q.CabinClass = flights.CabinBusiness
	variants["cabinClass"] = q

	baseKey := cache.Key(base)
	for field, variant := range variants {
		assert.NotEqual(t, baseKey, cache.Key(variant), "changing %s must change the key", field)
	}
}

func TestKey_ClientIPIgnored(t *testing.T) {
	q1 := normalizedQuery()
	q2 := normalizedQuery()
	q2.ClientIP = "203.0.113.9"
	assert.Equal(t, cache.Key(q1), cache.Key(q2))
}

func TestMemory_PutGet(t *testing.T) {
	m := cache.NewMemory(10)
	ctx := context.Background()

	m.Put(ctx, "k1", sampleResult(120), time.Hour)

	got, ok := m.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, 120, got.Flights[0].Price)
}

func TestMemory_MissingKey(t *testing.T) {
	m := cache.NewMemory(10)
	_, ok := m.Get(context.Background(), "ghost")
	assert.False(t, ok)
}

func TestMemory_TTLExpiry(t *testing.T) {
	clock := newFakeClock()
	m := cache.NewMemoryWithClock(10, clock.now)
	ctx := context.Background()

	m.Put(ctx, "k1", sampleResult(120), 2*time.Hour)

	_, ok := m.Get(ctx, "k1")
	require.True(t, ok, "entry should be retrievable immediately")

	clock.advance(2*time.Hour - time.Second)
	_, ok = m.Get(ctx, "k1")
	require.True(t, ok, "entry should survive until the TTL elapses")

	clock.advance(2 * time.Second)
	_, ok = m.Get(ctx, "k1")
	assert.False(t, ok, "entry must be absent after the TTL")
	assert.Equal(t, 0, m.Len(), "expired entry should be removed on lookup")
}

func TestMemory_CapacityEvictsOldestInserted(t *testing.T) {
	m := cache.NewMemory(3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		m.Put(ctx, fmt.Sprintf("k%d", i), sampleResult(100+i), time.Hour)
	}

	assert.Equal(t, 3, m.Len(), "store must not exceed its capacity")

	_, ok := m.Get(ctx, "k0")
	assert.False(t, ok, "first-inserted key should be evicted")
	for i := 1; i < 4; i++ {
		_, ok := m.Get(ctx, fmt.Sprintf("k%d", i))
		assert.True(t, ok, "k%d should survive", i)
	}
}

func TestMemory_OverwriteDoesNotEvict(t *testing.T) {
	m := cache.NewMemory(2)
	ctx := context.Background()

	m.Put(ctx, "k1", sampleResult(100), time.Hour)
	m.Put(ctx, "k2", sampleResult(200), time.Hour)
	m.Put(ctx, "k1", sampleResult(150), time.Hour)

	assert.Equal(t, 2, m.Len())
	got, ok := m.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, 150, got.Flights[0].Price)
	_, ok = m.Get(ctx, "k2")
	assert.True(t, ok)
}

func TestMemory_NilResultIgnored(t *testing.T) {
	m := cache.NewMemory(2)
	m.Put(context.Background(), "k1", nil, time.Hour)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_Ping(t *testing.T) {
	m := cache.NewMemory(1)
	assert.NoError(t, m.Ping(context.Background()))
	assert.NoError(t, m.Close())
}
