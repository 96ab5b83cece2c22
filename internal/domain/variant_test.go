package domain

import (
	"errors"
	"testing"
	"time"
)

func TestArchiveRejectsStandardVariants(t *testing.T) {
	v := &Variant{Kind: VariantKindStandard}
	if err := v.Archive(time.Now()); !errors.Is(err, ErrNotArchivable) {
		t.Fatalf("expected ErrNotArchivable, got %v", err)
	}
	if v.ArchivedAt != nil {
		t.Fatal("standard variant must not gain an archival marker")
	}
	if err := v.Unarchive(); !errors.Is(err, ErrNotArchivable) {
		t.Fatalf("expected ErrNotArchivable on unarchive, got %v", err)
	}
}

func TestArchiveMarksRecordings(t *testing.T) {
	v := &Variant{Kind: VariantKindRecording, RecordableType: RecordableSingleTrack}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := v.Archive(at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Archived() {
		t.Fatal("expected recording to report archived")
	}
	if err := v.Unarchive(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Archived() {
		t.Fatal("expected archival marker cleared")
	}
}

func TestArchivalIndependentOfDiscard(t *testing.T) {
	now := time.Now()
	v := &Variant{Kind: VariantKindRecording, DiscardedAt: &now}
	if err := v.Archive(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Discarded() || !v.Archived() {
		t.Fatal("discard and archival are independent markers")
	}
}
