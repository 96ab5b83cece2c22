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

// AfterAuthenticateJob runs right after a shop completes OAuth: it
// subscribes the shop to the app's webhook topics and kicks off the
// first collection sync.
type AfterAuthenticateJob struct {
	scope     *application.ShopScope
	installer *application.WebhookInstaller
	queue     ports.JobQueue
	logger    zerolog.Logger
}

// NewAfterAuthenticateJob creates the handler.
func NewAfterAuthenticateJob(scope *application.ShopScope, installer *application.WebhookInstaller, queue ports.JobQueue, logger zerolog.Logger) *AfterAuthenticateJob {
	return &AfterAuthenticateJob{scope: scope, installer: installer, queue: queue, logger: logger}
}

func (j *AfterAuthenticateJob) Name() string { return application.JobAfterAuthenticate }

func (j *AfterAuthenticateJob) Perform(ctx context.Context, args json.RawMessage) error {
	var a application.AfterAuthenticateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("failed to decode job args: %w", err)
	}

	return j.scope.Within(ctx, application.ScopeForDomain(a.ShopDomain), func(ctx context.Context) error {
		shop, _ := domain.ShopFromContext(ctx)

		if err := j.installer.InstallAll(ctx); err != nil {
			return err
		}
		return j.queue.Enqueue(ctx, application.JobSyncCollections, application.SyncArgs{ShopID: shop.ID})
	})
}
