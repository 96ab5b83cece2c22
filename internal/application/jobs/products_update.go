package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"soundfy-core-shopify-layer/internal/application"
	"soundfy-core-shopify-layer/internal/domain"
	"soundfy-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ProductsUpdateJob applies a products/update webhook. An update
// arriving after the product was discarded locally is acknowledged
// without resurrecting the record.
type ProductsUpdateJob struct {
	scope    *application.ShopScope
	products ports.ProductRepository
	variants ports.VariantRepository
	logger   zerolog.Logger
}

// NewProductsUpdateJob creates the handler.
func NewProductsUpdateJob(scope *application.ShopScope, products ports.ProductRepository, variants ports.VariantRepository, logger zerolog.Logger) *ProductsUpdateJob {
	return &ProductsUpdateJob{scope: scope, products: products, variants: variants, logger: logger}
}

func (j *ProductsUpdateJob) Name() string { return application.JobProductsUpdate }

func (j *ProductsUpdateJob) Perform(ctx context.Context, args json.RawMessage) error {
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

		product, err := j.products.CreateOrFind(ctx, shop.ID, payload.ID.UUID())
		if err != nil {
			return err
		}
		if product.Discarded() {
			return nil
		}

		return j.products.WithNonBlockingLock(ctx, shop.ID, product.ID, func(ctx context.Context) error {
			product.Title = payload.Title
			product.Status = domain.ProductStatusFromRemote(payload.Status)
			product.ImageURL = payload.imageURL()
			if err := j.products.Update(ctx, product); err != nil {
				return err
			}

			if len(payload.Variants) == 0 {
				return nil
			}
			return j.variants.UpsertMany(ctx, shop.ID, product.ID, payload.variantImports())
		})
	})
}
