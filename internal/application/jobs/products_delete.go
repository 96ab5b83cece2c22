package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"soundfy-core-shopify-layer/internal/application"
	"soundfy-core-shopify-layer/internal/domain"
	"soundfy-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ProductsDeleteJob applies a products/delete webhook by soft-deleting
// the product and its variants. A delete may outrun the create webhook;
// the resulting ErrNotFound is retryable so the queue tries again later.
type ProductsDeleteJob struct {
	scope    *application.ShopScope
	products ports.ProductRepository
	logger   zerolog.Logger
}

// NewProductsDeleteJob creates the handler.
func NewProductsDeleteJob(scope *application.ShopScope, products ports.ProductRepository, logger zerolog.Logger) *ProductsDeleteJob {
	return &ProductsDeleteJob{scope: scope, products: products, logger: logger}
}

func (j *ProductsDeleteJob) Name() string { return application.JobProductsDelete }

func (j *ProductsDeleteJob) Perform(ctx context.Context, args json.RawMessage) error {
	var a application.WebhookArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("failed to decode job args: %w", err)
	}

	return j.scope.Within(ctx, application.ScopeForDomain(a.ShopDomain), func(ctx context.Context) error {
		shop, _ := domain.ShopFromContext(ctx)

		var payload productPayload
		if err := json.Unmarshal(a.Webhook, &payload); err != nil {
			return fmt.Errorf("failed to decode product payload: %w", err)
		}

		product, err := j.products.GetByShopifyUUID(ctx, shop.ID, payload.ID.UUID())
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("product %s: %w", payload.ID.UUID(), domain.ErrNotFound)
		}
		if product.Discarded() {
			return nil
		}

		return j.products.WithNonBlockingLock(ctx, shop.ID, product.ID, func(ctx context.Context) error {
			return j.products.Discard(ctx, shop.ID, product.ID, time.Now().UTC())
		})
	})
}
