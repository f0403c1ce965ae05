package id

import (
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerator_TimestampOnly(t *testing.T) {
	g := New("improv-", 0)
	now := time.UnixMilli(1700000000123)

	if got := g.DynamicRoomName(now); got != "improv-1700000000123" {
		t.Errorf("expected 'improv-1700000000123', got %q", got)
	}
}

func TestGenerator_WithSuffix(t *testing.T) {
	g := New("improv-", 6)
	now := time.UnixMilli(1700000000123)

	name := g.DynamicRoomName(now)
	pattern := regexp.MustCompile(`^improv-1700000000123-[0-9a-z]{6}$`)
	if !pattern.MatchString(name) {
		t.Errorf("room name %q does not match %s", name, pattern)
	}
}

func TestGenerator_NegativeSuffixTreatedAsZero(t *testing.T) {
	g := New("improv-", -3)
	name := g.DynamicRoomName(time.UnixMilli(42))
	if name != "improv-42" {
		t.Errorf("expected 'improv-42', got %q", name)
	}
}

func TestGenerator_DistinctMillisecondsNeverCollide(t *testing.T) {
	for _, suffix := range []int{0, 6} {
		g := New("improv-", suffix)
		base := time.UnixMilli(1700000000000)

		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			name := g.DynamicRoomName(base.Add(time.Duration(i) * time.Millisecond))
			if seen[name] {
				t.Fatalf("suffix=%d: duplicate room name %q", suffix, name)
			}
			seen[name] = true
		}
	}
}

func TestGenerator_SameMillisecondWithSuffix(t *testing.T) {
	g := New("improv-", 8)
	now := time.UnixMilli(1700000000000)

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := g.DynamicRoomName(now)
			mu.Lock()
			defer mu.Unlock()
			seen[name] = true
		}()
	}
	wg.Wait()

	if len(seen) != 200 {
		t.Errorf("expected 200 distinct names within one millisecond, got %d", len(seen))
	}
	for name := range seen {
		if !strings.HasPrefix(name, "improv-1700000000000-") {
			t.Errorf("unexpected name %q", name)
		}
	}
}
