package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestStore_DeniesOverLimit(t *testing.T) {
	store := NewStore(2, time.Minute)

	now := time.Unix(1000, 0)
	store.SetClock(func() time.Time { return now })

	if ok, _ := store.Allow("client"); !ok {
		t.Fatalf("first call should be admitted")
	}
	if ok, _ := store.Allow("client"); !ok {
		t.Fatalf("second call should be admitted")
	}

	ok, retryAfter := store.Allow("client")
	if ok {
		t.Fatalf("third call within the window should be denied")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Errorf("expected retry-after within (0, 1m], got %v", retryAfter)
	}
}

func TestStore_WindowElapses(t *testing.T) {
	store := NewStore(2, time.Minute)

	now := time.Unix(1000, 0)
	store.SetClock(func() time.Time { return now })

	store.Allow("client")
	store.Allow("client")
	if ok, _ := store.Allow("client"); ok {
		t.Fatalf("expected denial before window elapsed")
	}

	now = now.Add(time.Minute)
	if ok, _ := store.Allow("client"); !ok {
		t.Fatalf("expected admission after window elapsed")
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := NewStore(1, time.Minute)

	if ok, _ := store.Allow("alice"); !ok {
		t.Fatalf("alice's first call should be admitted")
	}
	if ok, _ := store.Allow("bob"); !ok {
		t.Fatalf("bob should not be affected by alice's window")
	}
	if ok, _ := store.Allow("alice"); ok {
		t.Fatalf("alice's second call should be denied")
	}
}

func TestStore_ConcurrentAdmissionsNeverOvercount(t *testing.T) {
	const limit = 50
	store := NewStore(limit, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < limit*3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.Allow("client"); ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != limit {
		t.Errorf("expected exactly %d admissions, got %d", limit, admitted)
	}
}

func TestStore_PruneDropsElapsedWindows(t *testing.T) {
	store := NewStore(5, time.Minute)

	now := time.Unix(1000, 0)
	store.SetClock(func() time.Time { return now })

	store.Allow("old")
	now = now.Add(2 * time.Minute)
	store.Allow("fresh")

	store.Prune()

	store.mu.Lock()
	_, oldKept := store.windows["old"]
	_, freshKept := store.windows["fresh"]
	store.mu.Unlock()

	if oldKept {
		t.Errorf("expected elapsed window to be pruned")
	}
	if !freshKept {
		t.Errorf("expected active window to survive pruning")
	}
}

func TestStore_DefaultsOnBadInput(t *testing.T) {
	store := NewStore(0, 0)
	if store.limit != 60 {
		t.Errorf("expected default limit 60, got %d", store.limit)
	}
	if store.window != time.Minute {
		t.Errorf("expected default window 1m, got %v", store.window)
	}
}
