package openweather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-analytics/internal/observability"
)

type stubFetcher struct {
	temperature float64
	err         error
	calls       int
}

func (s *stubFetcher) CurrentTemperature(_ context.Context, _ string) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.temperature, nil
}

func TestCachedClient_HitWithinTTL(t *testing.T) {
	inner := &stubFetcher{temperature: 12.5}
	clock := clockwork.NewFakeClock()
	c := NewCachedClient(inner, 10, 2*time.Minute, clock, observability.NewMetricsForTesting())

	for i := 0; i < 3; i++ {
		temp, err := c.CurrentTemperature(context.Background(), "Berlin")
		require.NoError(t, err)
		assert.Equal(t, 12.5, temp)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedClient_KeyIsCaseInsensitive(t *testing.T) {
	inner := &stubFetcher{temperature: 12.5}
	clock := clockwork.NewFakeClock()
	c := NewCachedClient(inner, 10, 2*time.Minute, clock, observability.NewMetricsForTesting())

	_, err := c.CurrentTemperature(context.Background(), "Berlin")
	require.NoError(t, err)
	_, err = c.CurrentTemperature(context.Background(), " berlin ")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
}

func TestCachedClient_ExpiresAfterTTL(t *testing.T) {
	inner := &stubFetcher{temperature: 12.5}
	clock := clockwork.NewFakeClock()
	c := NewCachedClient(inner, 10, 2*time.Minute, clock, observability.NewMetricsForTesting())

	_, err := c.CurrentTemperature(context.Background(), "Berlin")
	require.NoError(t, err)

	clock.Advance(3 * time.Minute)

	_, err = c.CurrentTemperature(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedClient_ErrorsAreNotCached(t *testing.T) {
	inner := &stubFetcher{err: errors.New("city not found")}
	clock := clockwork.NewFakeClock()
	c := NewCachedClient(inner, 10, 2*time.Minute, clock, observability.NewMetricsForTesting())

	_, err := c.CurrentTemperature(context.Background(), "Atlantis")
	require.Error(t, err)
	_, err = c.CurrentTemperature(context.Background(), "Atlantis")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedClient_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := &stubFetcher{temperature: 5}
	clock := clockwork.NewFakeClock()
	c := NewCachedClient(inner, 2, time.Hour, clock, observability.NewMetricsForTesting())

	_, _ = c.CurrentTemperature(context.Background(), "a")
	_, _ = c.CurrentTemperature(context.Background(), "b")
	// Touch "a" so "b" becomes the eviction candidate.
	_, _ = c.CurrentTemperature(context.Background(), "a")
	_, _ = c.CurrentTemperature(context.Background(), "c")

	calls := inner.calls // a, b, c fetched once each
	assert.Equal(t, 3, calls)

	_, _ = c.CurrentTemperature(context.Background(), "a") // still cached
	assert.Equal(t, 3, inner.calls)

	_, _ = c.CurrentTemperature(context.Background(), "b") // evicted, refetched
	assert.Equal(t, 4, inner.calls)
}
