package domain

import "time"

// Collection is a tenant-owned mirror of a Shopify collection, unique
// per (shop_id, shopify_uuid).
type Collection struct {
	ID          string
	ShopID      string
	ShopifyUUID string
	Title       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
