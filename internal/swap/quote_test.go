package swap

import (
	"testing"
	"time"
)

func TestQuoteExpired(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	quote := &Quote{AliveUntil: deadline}

	if quote.Expired(deadline.Add(-time.Nanosecond)) {
		t.Fatal("quote must be alive before its deadline")
	}
	if !quote.Expired(deadline) {
		t.Fatal("the deadline itself counts as expired")
	}
	if !quote.Expired(deadline.Add(time.Second)) {
		t.Fatal("quote must be expired past its deadline")
	}
}
