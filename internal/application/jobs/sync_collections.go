package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"soundfy-core-shopify-layer/internal/application"
	syncstep "soundfy-core-shopify-layer/internal/application/sync"
	"soundfy-core-shopify-layer/internal/domain"
	"soundfy-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

const collectionSyncPageSize = 25

// SyncCollectionsJob resynchronizes a shop's collections, checkpointed
// the same way as the product sync.
type SyncCollectionsJob struct {
	scope    *application.ShopScope
	runner   *syncstep.StepRunner
	catalog  ports.Catalog
	importer *application.CollectionImporter
	logger   zerolog.Logger
}

// NewSyncCollectionsJob creates the handler.
func NewSyncCollectionsJob(scope *application.ShopScope, runner *syncstep.StepRunner, catalog ports.Catalog, importer *application.CollectionImporter, logger zerolog.Logger) *SyncCollectionsJob {
	return &SyncCollectionsJob{scope: scope, runner: runner, catalog: catalog, importer: importer, logger: logger}
}

func (j *SyncCollectionsJob) Name() string { return application.JobSyncCollections }

func (j *SyncCollectionsJob) Perform(ctx context.Context, args json.RawMessage) error {
	var a application.SyncArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("failed to decode job args: %w", err)
	}

	return j.scope.Within(ctx, application.ScopeForShopID(a.ShopID), func(ctx context.Context) error {
		shop, _ := domain.ShopFromContext(ctx)
		stepKey := fmt.Sprintf("%s:sync_collections:process", shop.ID)

		return syncstep.RunStep(ctx, j.runner, stepKey,
			func(after string) ports.Stream[domain.RemoteCollection] {
				return j.catalog.CollectionBatches(collectionSyncPageSize, after)
			},
			func(ctx context.Context, batch []domain.RemoteCollection) error {
				return j.importer.Import(ctx, shop, batch)
			},
		)
	})
}
