package feed

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// MockFetcher hands out a fixed observation list, Batch at a time.
type MockFetcher struct {
	Observations []Observation
	Batch        int

	next int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context) ([]Observation, error) {
	n := m.Batch
	if n <= 0 {
		n = len(m.Observations)
	}
	end := m.next + n
	if end > len(m.Observations) {
		end = len(m.Observations)
	}
	out := m.Observations[m.next:end]
	m.next = end
	return out, nil
}

// Collector wraps a Fetcher and only passes on well-formed rounds newer than
// the last one it emitted. Sources that re-send their latest window are safe.
type Collector struct {
	Fetcher Fetcher

	last time.Time
	seen bool
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Resume makes the collector skip everything at or before t.
func (c *Collector) Resume(t time.Time) {
	c.last, c.seen = t, true
}

// Collect fetches and filters the next batch, sorted by time.
func (c *Collector) Collect(ctx context.Context) ([]Observation, error) {
	batch, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.Fetcher.Name(), err)
	}
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Round.Timestamp.Before(batch[j].Round.Timestamp)
	})

	out := make([]Observation, 0, len(batch))
	for _, obs := range batch {
		m := obs.Round.Multiplier
		if math.IsNaN(m) || m < 1 {
			log.Warn().Float64("multiplier", m).Time("at", obs.Round.Timestamp).Msg("dropping malformed round")
			continue
		}
		if c.seen && !obs.Round.Timestamp.After(c.last) {
			continue
		}
		c.last, c.seen = obs.Round.Timestamp, true
		out = append(out, obs)
	}
	return out, nil
}
