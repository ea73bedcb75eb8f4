// Package observability tracks per-read statistics: rows ingested per table
// and records or relations skipped along the way.
package observability

import (
	"sort"
	"sync"
)

// ReadStats counts rows per table and skipped items per kind for one read.
// A nil *ReadStats is valid and records nothing.
type ReadStats struct {
	mu      sync.RWMutex
	rows    map[string]*Counter
	skipped map[string]*Counter
}

// Counter holds a count and its breakdown by reason.
type Counter struct {
	Name    string
	Count   int64
	Reasons map[string]int // reason → count (e.g., "unknown_table" → 3)
}

// NewReadStats creates a new statistics tracker.
func NewReadStats() *ReadStats {
	return &ReadStats{
		rows:    make(map[string]*Counter),
		skipped: make(map[string]*Counter),
	}
}

// RecordRows adds n ingested rows for a table.
func (s *ReadStats) RecordRows(table string, n int) {
	if s == nil || n == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := counter(s.rows, table)
	c.Count += int64(n)
}

// RecordSkip records one skipped item of the given kind (e.g., "record",
// "link", "assignment") with the reason it was skipped.
func (s *ReadStats) RecordSkip(kind, reason string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := counter(s.skipped, kind)
	c.Count++
	c.Reasons[reason]++
}

// Rows returns the number of rows recorded for a table.
func (s *ReadStats) Rows(table string) int64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.rows[table]; ok {
		return c.Count
	}
	return 0
}

// Skipped returns the number of skipped items of a kind.
func (s *ReadStats) Skipped(kind string) int64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.skipped[kind]; ok {
		return c.Count
	}
	return 0
}

// TopTables returns the n tables with the most rows, largest first.
func (s *ReadStats) TopTables(n int) []Counter {
	if s == nil {
		return []Counter{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return top(s.rows, n)
}

// SkipSummary returns every skip counter, largest first.
func (s *ReadStats) SkipSummary() []Counter {
	if s == nil {
		return []Counter{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return top(s.skipped, len(s.skipped))
}

func counter(m map[string]*Counter, name string) *Counter {
	c, exists := m[name]
	if !exists {
		c = &Counter{Name: name, Reasons: make(map[string]int)}
		m[name] = c
	}
	return c
}

// top returns deep copies of the n largest counters. Ties are ordered by name.
func top(m map[string]*Counter, n int) []Counter {
	if n <= 0 || len(m) == 0 {
		return []Counter{}
	}

	out := make([]Counter, 0, len(m))
	for _, c := range m {
		cp := Counter{Name: c.Name, Count: c.Count, Reasons: make(map[string]int, len(c.Reasons))}
		for reason, count := range c.Reasons {
			cp.Reasons[reason] = count
		}
		out = append(out, cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})

	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
