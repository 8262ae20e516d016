package maintenance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revisely/dkt/internal/insights"
	"github.com/revisely/dkt/internal/store"
)

func testRunner(t *testing.T, ttl time.Duration, keep int) (*Runner, *store.Store) {
	t.Helper()
	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	agg := insights.NewAggregator(s.Mastery(), s.Interactions())
	svc := insights.NewService(agg, s.Snapshots(), ttl, time.Second)
	return NewRunner(s.Snapshots(), svc, keep), s
}

func TestRunner_PruneSnapshots(t *testing.T) {
	r, s := testRunner(t, time.Hour, 2)
	base := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	for _, userID := range []string{"u1", "u2"} {
		for i := 0; i < 5; i++ {
			err := s.Snapshots().Save(t.Context(), userID, "{}", base.Add(time.Duration(i)*time.Hour))
			require.NoError(t, err)
		}
	}

	r.pruneSnapshots()

	for _, userID := range []string{"u1", "u2"} {
		var n int64
		err := s.DB().Model(&store.InsightsSnapshot{}).Where("user_id = ?", userID).Count(&n).Error
		require.NoError(t, err)
		assert.Equal(t, int64(2), n, "user %s", userID)

		latest, err := s.Snapshots().Latest(t.Context(), userID)
		require.NoError(t, err)
		assert.True(t, latest.ComputedAt.Equal(base.Add(4*time.Hour)), "newest snapshot must survive")
	}
}

func TestRunner_SweepCache(t *testing.T) {
	r, _ := testRunner(t, time.Nanosecond, 10)

	// Prime the cache with an entry that is immediately past TTL.
	_, err := r.insights.Get(t.Context(), "u1")
	require.NoError(t, err)

	r.sweepCache()
	assert.Equal(t, 0, r.insights.SweepExpired(), "sweep should have emptied the cache")
}

func TestNewRunner_DefaultKeep(t *testing.T) {
	r, _ := testRunner(t, time.Hour, 0)
	assert.Equal(t, 10, r.keep)
}

func TestRunner_StartStop(t *testing.T) {
	r, _ := testRunner(t, time.Hour, 5)
	require.NoError(t, r.Start())
	r.Stop()
}
