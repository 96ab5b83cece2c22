package jobs

import (
	"context"
	"encoding/json"

	"soundfy-core-shopify-layer/internal/application"
	"soundfy-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// CollectionsUpdateJob applies a collections/update webhook.
type CollectionsUpdateJob struct {
	scope       *application.ShopScope
	collections ports.CollectionRepository
	logger      zerolog.Logger
}

// NewCollectionsUpdateJob creates the handler.
func NewCollectionsUpdateJob(scope *application.ShopScope, collections ports.CollectionRepository, logger zerolog.Logger) *CollectionsUpdateJob {
	return &CollectionsUpdateJob{scope: scope, collections: collections, logger: logger}
}

func (j *CollectionsUpdateJob) Name() string { return application.JobCollectionsUpdate }

func (j *CollectionsUpdateJob) Perform(ctx context.Context, args json.RawMessage) error {
	return applyCollectionUpsert(ctx, j.scope, j.collections, args)
}
