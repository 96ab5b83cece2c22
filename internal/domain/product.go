package domain

import (
	"strings"
	"time"
)

// ProductStatus mirrors Shopify's product status values, lowercased.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusUnlisted ProductStatus = "unlisted"
)

// ProductStatusFromRemote normalizes the status Shopify sends ("ACTIVE",
// "Draft", ...) to the stored lowercase form.
func ProductStatusFromRemote(s string) ProductStatus {
	return ProductStatus(strings.ToLower(s))
}

// Product is a tenant-owned mirror of a Shopify product, unique per
// (shop_id, shopify_uuid).
type Product struct {
	ID          string
	ShopID      string
	ShopifyUUID string
	Title       string
	Status      ProductStatus
	ImageURL    string
	DiscardedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Discarded reports whether the product was soft-deleted locally. Webhook
// handlers short-circuit on discarded records so a stale "update" arriving
// after a "delete" never resurrects them.
func (p *Product) Discarded() bool {
	return p.DiscardedAt != nil
}
