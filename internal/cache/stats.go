package cache

import (
	"sort"
	"sync"
	"sync/atomic"
)

// KeyAccess is one entry of the top-keys report.
type KeyAccess struct {
	Key    string `json:"key"`
	Hits   int64  `json:"hits"`
	Misses int64  `json:"misses"`
}

// Metrics is a read-only snapshot of cache effectiveness. Taking a
// snapshot never fails and never blocks writers for long.
type Metrics struct {
	Hits     int64       `json:"hits"`
	Misses   int64       `json:"misses"`
	HitRatio float64     `json:"hit_ratio"`
	TopKeys  []KeyAccess `json:"top_keys"`
}

// keyStat accumulates per-key counters. Monotonic for the process
// lifetime; reset only by restart.
type keyStat struct {
	hits   int64
	misses int64
}

// accessStats tracks process-wide and per-key hit/miss counts. The
// global counters are atomics; the per-key table is mutex-guarded so
// concurrent accesses to the same key never lose increments.
type accessStats struct {
	hits   atomic.Int64
	misses atomic.Int64

	mu     sync.Mutex
	perKey map[string]*keyStat
}

func newAccessStats() *accessStats {
	return &accessStats{
		perKey: make(map[string]*keyStat),
	}
}

func (s *accessStats) recordHit(key string) {
	s.hits.Add(1)
	s.mu.Lock()
	s.stat(key).hits++
	s.mu.Unlock()
}

func (s *accessStats) recordMiss(key string) {
	s.misses.Add(1)
	s.mu.Lock()
	s.stat(key).misses++
	s.mu.Unlock()
}

// stat returns the counter row for key, creating it on first access.
// Callers must hold mu.
func (s *accessStats) stat(key string) *keyStat {
	st, ok := s.perKey[key]
	if !ok {
		st = &keyStat{}
		s.perKey[key] = st
	}
	return st
}

// snapshot assembles a Metrics view with the topN most accessed keys.
func (s *accessStats) snapshot(topN int) Metrics {
	hits := s.hits.Load()
	misses := s.misses.Load()

	m := Metrics{Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		m.HitRatio = float64(hits) / float64(total)
	}

	s.mu.Lock()
	top := make([]KeyAccess, 0, len(s.perKey))
	for key, st := range s.perKey {
		top = append(top, KeyAccess{Key: key, Hits: st.hits, Misses: st.misses})
	}
	s.mu.Unlock()

	sort.Slice(top, func(i, j int) bool {
		ti := top[i].Hits + top[i].Misses
		tj := top[j].Hits + top[j].Misses
		if ti != tj {
			return ti > tj
		}
		return top[i].Key < top[j].Key
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	m.TopKeys = top

	return m
}
