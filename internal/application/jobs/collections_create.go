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

// CollectionsCreateJob applies a collections/create webhook.
type CollectionsCreateJob struct {
	scope       *application.ShopScope
	collections ports.CollectionRepository
	logger      zerolog.Logger
}

// NewCollectionsCreateJob creates the handler.
func NewCollectionsCreateJob(scope *application.ShopScope, collections ports.CollectionRepository, logger zerolog.Logger) *CollectionsCreateJob {
	return &CollectionsCreateJob{scope: scope, collections: collections, logger: logger}
}

func (j *CollectionsCreateJob) Name() string { return application.JobCollectionsCreate }

func (j *CollectionsCreateJob) Perform(ctx context.Context, args json.RawMessage) error {
	return applyCollectionUpsert(ctx, j.scope, j.collections, args)
}

// applyCollectionUpsert is shared by the create and update jobs: the
// webhook payload fully determines the stored title either way.
func applyCollectionUpsert(ctx context.Context, scope *application.ShopScope, collections ports.CollectionRepository, args json.RawMessage) error {
	var a application.WebhookArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("failed to decode job args: %w", err)
	}

	return scope.Within(ctx, application.ScopeForDomain(a.ShopDomain), func(ctx context.Context) error {
		shop, _ := domain.ShopFromContext(ctx)

		var payload collectionPayload
		if err := json.Unmarshal(a.Webhook, &payload); err != nil {
			return fmt.Errorf("failed to decode collection payload: %w", err)
		}

		collection, err := collections.CreateOrFind(ctx, shop.ID, payload.ID.UUID())
		if err != nil {
			return err
		}

		return collections.WithNonBlockingLock(ctx, shop.ID, collection.ID, func(ctx context.Context) error {
			collection.Title = payload.Title
			return collections.Update(ctx, collection)
		})
	})
}
