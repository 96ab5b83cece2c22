package domain

import (
	"errors"
	"time"
)

// VariantKind discriminates plain product variants from recordings, the
// audio-bearing subtype.
type VariantKind string

const (
	VariantKindStandard  VariantKind = "standard"
	VariantKindRecording VariantKind = "recording"
)

// RecordableType tags the recordable a recording points at.
type RecordableType string

const (
	RecordableSingleTrack RecordableType = "single_track"
	RecordableAlbum       RecordableType = "album"
	RecordableAlbumTrack  RecordableType = "album_track"
)

// ErrNotArchivable is returned when archival is attempted on a variant
// that is not a recording.
var ErrNotArchivable = errors.New("only recordings can be archived")

// Variant is a tenant-owned mirror of a Shopify product variant, unique
// per (shop_id, shopify_uuid). It must belong to a product of the same
// shop; every mutation path checks that invariant.
//
// Kind plays the role of a subtype discriminant: a recording carries the
// audio-specific fields (archival marker and an optional recordable
// reference) that are meaningless on a standard variant.
type Variant struct {
	ID          string
	ShopID      string
	ProductID   string
	ShopifyUUID string
	Title       string
	Kind        VariantKind
	DiscardedAt *time.Time

	// Recording-only fields.
	ArchivedAt     *time.Time
	RecordableType RecordableType
	RecordableID   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recording reports whether this variant is the audio-bearing subtype.
func (v *Variant) Recording() bool {
	return v.Kind == VariantKindRecording
}

// Discarded reports whether the variant was soft-deleted along with (or
// independently of) its product.
func (v *Variant) Discarded() bool {
	return v.DiscardedAt != nil
}

// Archived reports whether the recording is archived. Standard variants
// are never archived.
func (v *Variant) Archived() bool {
	return v.Recording() && v.ArchivedAt != nil
}

// Archive marks a recording as archived, independently of the product's
// discarded state.
func (v *Variant) Archive(now time.Time) error {
	if !v.Recording() {
		return ErrNotArchivable
	}
	v.ArchivedAt = &now
	return nil
}

// Unarchive clears the archival marker.
func (v *Variant) Unarchive() error {
	if !v.Recording() {
		return ErrNotArchivable
	}
	v.ArchivedAt = nil
	return nil
}
