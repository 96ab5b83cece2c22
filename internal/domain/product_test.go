package domain

import (
	"testing"
	"time"
)

func TestProductStatusFromRemoteLowercases(t *testing.T) {
	if got := ProductStatusFromRemote("ACTIVE"); got != ProductStatusActive {
		t.Fatalf("expected active, got %q", got)
	}
	if got := ProductStatusFromRemote("Draft"); got != ProductStatusDraft {
		t.Fatalf("expected draft, got %q", got)
	}
}

func TestProductDiscarded(t *testing.T) {
	p := &Product{}
	if p.Discarded() {
		t.Fatal("fresh product must not report discarded")
	}
	now := time.Now()
	p.DiscardedAt = &now
	if !p.Discarded() {
		t.Fatal("expected discarded")
	}
}
