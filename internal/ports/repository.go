package ports

import (
	"context"
	"time"

	"soundfy-core-shopify-layer/internal/domain"
)

// ShopRepository defines the interface for shop (tenant) persistence.
// Lookups return (nil, nil) when no matching shop exists.
type ShopRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Shop, error)
	GetByDomain(ctx context.Context, shopDomain string) (*domain.Shop, error)
	Save(ctx context.Context, shop *domain.Shop) error

	// WithLock runs fn while holding the shop's storage-level lock,
	// waiting for contenders to release it.
	WithLock(ctx context.Context, shopID string, fn func(ctx context.Context) error) error
}

// ProductRepository defines the interface for product persistence. Every
// operation is scoped by shopID; rows of other shops are unreachable.
type ProductRepository interface {
	GetByShopifyUUID(ctx context.Context, shopID, shopifyUUID string) (*domain.Product, error)

	// CreateOrFind inserts a bare row keyed (shopID, shopifyUUID) unless
	// one already exists, and returns the row either way.
	CreateOrFind(ctx context.Context, shopID, shopifyUUID string) (*domain.Product, error)

	// Update writes the reconciler-owned fields (title, status,
	// image_url) of an existing row.
	Update(ctx context.Context, product *domain.Product) error

	// UpsertMany bulk-upserts import rows keyed (shopID, shopifyUUID),
	// updating only the reconciler-owned fields on conflict.
	UpsertMany(ctx context.Context, shopID string, rows []domain.ProductImport) error

	// Discard soft-deletes the product and all of its variants.
	Discard(ctx context.Context, shopID, productID string, at time.Time) error

	// WithNonBlockingLock runs fn while holding the product's row lock.
	// If another worker holds it, domain.ErrRecordLocked is returned
	// immediately instead of blocking.
	WithNonBlockingLock(ctx context.Context, shopID, productID string, fn func(ctx context.Context) error) error
}

// VariantRepository defines the interface for variant persistence.
type VariantRepository interface {
	// UpsertMany bulk-upserts variant rows under the given product,
	// updating only the title on conflict. The product must belong to
	// shopID; the shop-equality invariant is checked before writing.
	UpsertMany(ctx context.Context, shopID, productID string, rows []domain.VariantImport) error

	ListByProduct(ctx context.Context, shopID, productID string) ([]*domain.Variant, error)
}

// CollectionRepository defines the interface for collection persistence.
type CollectionRepository interface {
	GetByShopifyUUID(ctx context.Context, shopID, shopifyUUID string) (*domain.Collection, error)
	CreateOrFind(ctx context.Context, shopID, shopifyUUID string) (*domain.Collection, error)
	Update(ctx context.Context, collection *domain.Collection) error
	UpsertMany(ctx context.Context, shopID string, rows []domain.CollectionImport) error
	Delete(ctx context.Context, shopID, collectionID string) error
	WithNonBlockingLock(ctx context.Context, shopID, collectionID string, fn func(ctx context.Context) error) error
}

// EncryptionService defines the interface for encrypting access tokens
// at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
