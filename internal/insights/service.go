package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/revisely/dkt/internal/store"
)

// ErrNoSnapshot means insights could not be computed and no cached or
// persisted snapshot exists to fall back on (first-ever request).
var ErrNoSnapshot = errors.New("no insights snapshot available")

// Service fronts the aggregator with a TTL cache and snapshot fallback.
//
// Cache policy: TTL plus invalidate-on-write. The estimator calls
// Invalidate after each successful mastery update, so a fresh read never
// serves counts from before the latest practice session. TTL alone would
// serve stale struggling/mastered counts for up to six hours.
type Service struct {
	agg       *Aggregator
	snapshots store.SnapshotRepo
	ttl       time.Duration
	timeout   time.Duration

	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

type cacheEntry struct {
	insights   *AIInsights
	computedAt time.Time
}

// NewService creates the insights service.
func NewService(agg *Aggregator, snapshots store.SnapshotRepo, ttl, timeout time.Duration) *Service {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		agg:       agg,
		snapshots: snapshots,
		ttl:       ttl,
		timeout:   timeout,
		cache:     make(map[string]*cacheEntry),
	}
}

// Get returns the user's insights, from cache when fresh. On aggregation
// failure or timeout it degrades to the last known snapshot (memory first,
// then the persisted one) marked stale, and only errors when nothing at
// all is available.
func (s *Service) Get(ctx context.Context, userID string) (*AIInsights, error) {
	now := time.Now().UTC()

	s.mu.RLock()
	entry, ok := s.cache[userID]
	s.mu.RUnlock()
	if ok && now.Sub(entry.computedAt) < s.ttl {
		return entry.insights, nil
	}

	computeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ins, err := s.agg.Compute(computeCtx, userID, now)
	if err == nil {
		s.mu.Lock()
		s.cache[userID] = &cacheEntry{insights: ins, computedAt: now}
		s.mu.Unlock()
		s.persist(userID, ins, now)
		return ins, nil
	}

	log.Printf("insights: compute for %s failed, serving fallback: %v", userID, err)
	return s.fallback(ctx, userID, entry)
}

// fallback serves the freshest stale data available.
func (s *Service) fallback(ctx context.Context, userID string, entry *cacheEntry) (*AIInsights, error) {
	if entry != nil {
		stale := *entry.insights
		stale.Stale = true
		return &stale, nil
	}

	snap, err := s.snapshots.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	var ins AIInsights
	if err := json.Unmarshal([]byte(snap.Data), &ins); err != nil {
		return nil, fmt.Errorf("decode persisted snapshot: %w", err)
	}
	ins.Stale = true
	return &ins, nil
}

// persist writes the snapshot best-effort; a failed write only costs the
// restart/timeout fallback, not the response.
func (s *Service) persist(userID string, ins *AIInsights, now time.Time) {
	data, err := json.Marshal(ins)
	if err != nil {
		log.Printf("insights: marshal snapshot for %s: %v", userID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.snapshots.Save(ctx, userID, string(data), now); err != nil {
		log.Printf("insights: persist snapshot for %s: %v", userID, err)
	}
}

// Invalidate drops the cached entry for a user. Called by the write path
// after each successful mastery update.
func (s *Service) Invalidate(userID string) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}

// SweepExpired drops entries past TTL. Run periodically so memory doesn't
// grow with one entry per user forever.
func (s *Service) SweepExpired() int {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.cache {
		if now.Sub(entry.computedAt) >= s.ttl {
			delete(s.cache, id)
			removed++
		}
	}
	return removed
}
