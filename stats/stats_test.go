package stats_test

import (
	"testing"

	"github.com/nabbar/bolt/stats"
)

func TestObserveUpdatesCurrentAndPeak(t *testing.T) {
	c := stats.NewCollector()

	c.Observe("127.0.0.1:7687", 100, 50)
	if c.Current() != 150 {
		t.Fatalf("expected current=150, got %d", c.Current())
	}
	if c.Peak() != 150 {
		t.Fatalf("expected peak=150, got %d", c.Peak())
	}

	c.Release(150)
	if c.Current() != 0 {
		t.Fatalf("expected current=0 after release, got %d", c.Current())
	}
	if c.Peak() != 150 {
		t.Fatalf("expected peak to remain the high-water mark, got %d", c.Peak())
	}
}

func TestEventsCounts(t *testing.T) {
	c := stats.NewCollector()
	c.Observe("a", 1, 1)
	c.Observe("a", 1, 1)
	if c.Events() != 2 {
		t.Fatalf("expected 2 events, got %d", c.Events())
	}
}
