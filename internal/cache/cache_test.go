package cache

import (
	"testing"
	"time"

	"github.com/factify/factify/internal/model"
)

func TestKey_StableAndDistinct(t *testing.T) {
	a := Key("The Earth is flat")
	b := Key("The Earth is flat")
	c := Key("The Earth is round")

	if a != b {
		t.Errorf("expected identical keys for identical text")
	}
	if a == c {
		t.Errorf("expected different keys for different text")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get(Key("missing")); found {
		t.Errorf("expected miss for unknown key")
	}

	verdict := model.Verdict{Status: model.StatusVerified, ConfidenceScore: 0.8}
	c.Set(Key("claim"), verdict)

	got, found := c.Get(Key("claim"))
	if !found {
		t.Fatalf("expected hit")
	}
	if got.Status != model.StatusVerified || got.ConfidenceScore != 0.8 {
		t.Errorf("unexpected cached verdict: %+v", got)
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache(20*time.Millisecond, time.Minute)

	c.Set(Key("claim"), model.Verdict{Status: model.StatusFalse})
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(Key("claim")); found {
		t.Errorf("expected entry to expire")
	}
}
