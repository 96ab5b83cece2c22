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

// CollectionsDeleteJob applies a collections/delete webhook. Collections
// carry no local edits, so the row is removed outright rather than
// soft-deleted.
type CollectionsDeleteJob struct {
	scope       *application.ShopScope
	collections ports.CollectionRepository
	logger      zerolog.Logger
}

// NewCollectionsDeleteJob creates the handler.
func NewCollectionsDeleteJob(scope *application.ShopScope, collections ports.CollectionRepository, logger zerolog.Logger) *CollectionsDeleteJob {
	return &CollectionsDeleteJob{scope: scope, collections: collections, logger: logger}
}

func (j *CollectionsDeleteJob) Name() string { return application.JobCollectionsDelete }

func (j *CollectionsDeleteJob) Perform(ctx context.Context, args json.RawMessage) error {
	var a application.WebhookArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("failed to decode job args: %w", err)
	}

	return j.scope.Within(ctx, application.ScopeForDomain(a.ShopDomain), func(ctx context.Context) error {
		shop, _ := domain.ShopFromContext(ctx)

		var payload collectionPayload
		if err := json.Unmarshal(a.Webhook, &payload); err != nil {
			return fmt.Errorf("failed to decode collection payload: %w", err)
		}

		collection, err := j.collections.GetByShopifyUUID(ctx, shop.ID, payload.ID.UUID())
		if err != nil {
			return err
		}
		if collection == nil {
			// Delete arrived after the row was removed (or before it
			// ever existed). Out-of-order delivery, nothing to do.
			return nil
		}

		return j.collections.WithNonBlockingLock(ctx, shop.ID, collection.ID, func(ctx context.Context) error {
			return j.collections.Delete(ctx, shop.ID, collection.ID)
		})
	})
}
