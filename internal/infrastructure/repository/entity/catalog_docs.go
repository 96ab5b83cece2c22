package entity

import (
	"time"

	"soundfy-core-shopify-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductDoc is the MongoDB document for a product, keyed by the unique
// (shop_id, shopify_uuid) index.
type ProductDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ShopID      string             `bson:"shop_id"`
	ShopifyUUID string             `bson:"shopify_uuid"`
	Title       string             `bson:"title,omitempty"`
	Status      string             `bson:"status,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty"`
	DiscardedAt *time.Time         `bson:"discarded_at,omitempty"`
	LockedUntil *time.Time         `bson:"locked_until,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *ProductDoc) ToDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID.Hex(),
		ShopID:      d.ShopID,
		ShopifyUUID: d.ShopifyUUID,
		Title:       d.Title,
		Status:      domain.ProductStatus(d.Status),
		ImageURL:    d.ImageURL,
		DiscardedAt: d.DiscardedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// VariantDoc is the MongoDB document for a variant. Kind discriminates
// recordings; the recording-only fields stay empty on standard variants.
type VariantDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ShopID         string             `bson:"shop_id"`
	ProductID      string             `bson:"product_id"`
	ShopifyUUID    string             `bson:"shopify_uuid"`
	Title          string             `bson:"title,omitempty"`
	Kind           string             `bson:"kind"`
	DiscardedAt    *time.Time         `bson:"discarded_at,omitempty"`
	ArchivedAt     *time.Time         `bson:"archived_at,omitempty"`
	RecordableType string             `bson:"recordable_type,omitempty"`
	RecordableID   string             `bson:"recordable_id,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d *VariantDoc) ToDomain() *domain.Variant {
	return &domain.Variant{
		ID:             d.ID.Hex(),
		ShopID:         d.ShopID,
		ProductID:      d.ProductID,
		ShopifyUUID:    d.ShopifyUUID,
		Title:          d.Title,
		Kind:           domain.VariantKind(d.Kind),
		DiscardedAt:    d.DiscardedAt,
		ArchivedAt:     d.ArchivedAt,
		RecordableType: domain.RecordableType(d.RecordableType),
		RecordableID:   d.RecordableID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// CollectionDoc is the MongoDB document for a collection.
type CollectionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ShopID      string             `bson:"shop_id"`
	ShopifyUUID string             `bson:"shopify_uuid"`
	Title       string             `bson:"title,omitempty"`
	LockedUntil *time.Time         `bson:"locked_until,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *CollectionDoc) ToDomain() *domain.Collection {
	return &domain.Collection{
		ID:          d.ID.Hex(),
		ShopID:      d.ShopID,
		ShopifyUUID: d.ShopifyUUID,
		Title:       d.Title,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
