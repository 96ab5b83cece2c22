package domain

import "context"

// contextKey is a type for context keys to avoid collisions
type contextKey string

const shopContextKey contextKey = "shop"

// WithShop binds the current shop to the context for the duration of one
// job execution. The binding ends with the context, so pooled workers
// never leak tenant identity across jobs.
func WithShop(ctx context.Context, shop *Shop) context.Context {
	return context.WithValue(ctx, shopContextKey, shop)
}

// ShopFromContext returns the shop bound by WithShop.
func ShopFromContext(ctx context.Context) (*Shop, bool) {
	shop, ok := ctx.Value(shopContextKey).(*Shop)
	return shop, ok
}
