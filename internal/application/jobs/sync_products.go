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

// productSyncPageSize keeps product pages small: each page drags up to
// 100 nested variants along.
const productSyncPageSize = 10

// SyncProductsJob resynchronizes a shop's full product catalog. The
// step runner checkpoints the page cursor, so a crashed or retried run
// resumes after the last committed page. One run per shop at a time is
// assumed; a concurrent run would double-fetch but the idempotent
// importer keeps the data intact.
type SyncProductsJob struct {
	scope    *application.ShopScope
	runner   *syncstep.StepRunner
	catalog  ports.Catalog
	importer *application.ProductImporter
	logger   zerolog.Logger
}

// NewSyncProductsJob creates the handler.
func NewSyncProductsJob(scope *application.ShopScope, runner *syncstep.StepRunner, catalog ports.Catalog, importer *application.ProductImporter, logger zerolog.Logger) *SyncProductsJob {
	return &SyncProductsJob{scope: scope, runner: runner, catalog: catalog, importer: importer, logger: logger}
}

func (j *SyncProductsJob) Name() string { return application.JobSyncProducts }

func (j *SyncProductsJob) Perform(ctx context.Context, args json.RawMessage) error {
	var a application.SyncArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("failed to decode job args: %w", err)
	}

	return j.scope.Within(ctx, application.ScopeForShopID(a.ShopID), func(ctx context.Context) error {
		shop, _ := domain.ShopFromContext(ctx)
		stepKey := fmt.Sprintf("%s:sync_products:process", shop.ID)

		return syncstep.RunStep(ctx, j.runner, stepKey,
			func(after string) ports.Stream[domain.RemoteProduct] {
				return j.catalog.ProductBatches(productSyncPageSize, after)
			},
			func(ctx context.Context, batch []domain.RemoteProduct) error {
				return j.importer.Import(ctx, shop, batch)
			},
		)
	})
}
