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

// AppUninstalledJob soft-uninstalls the shop: the access token is
// redacted and the domain suffixed so a later reinstall starts clean.
// The shop row and its catalog survive for a grace period.
type AppUninstalledJob struct {
	scope  *application.ShopScope
	shops  ports.ShopRepository
	logger zerolog.Logger
}

// NewAppUninstalledJob creates the handler.
func NewAppUninstalledJob(scope *application.ShopScope, shops ports.ShopRepository, logger zerolog.Logger) *AppUninstalledJob {
	return &AppUninstalledJob{scope: scope, shops: shops, logger: logger}
}

func (j *AppUninstalledJob) Name() string { return application.JobAppUninstalled }

func (j *AppUninstalledJob) Perform(ctx context.Context, args json.RawMessage) error {
	var a application.WebhookArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("failed to decode job args: %w", err)
	}

	return j.scope.Within(ctx, application.ScopeForDomain(a.ShopDomain), func(ctx context.Context) error {
		shop, _ := domain.ShopFromContext(ctx)

		return j.shops.WithLock(ctx, shop.ID, func(ctx context.Context) error {
			if shop.Uninstalled() {
				return nil
			}
			shop.Uninstall(time.Now().UTC())
			if err := j.shops.Save(ctx, shop); err != nil {
				return err
			}
			j.logger.Info().Str("shop", a.ShopDomain).Msg("Shop uninstalled")
			// TODO: schedule catalog incineration a few days after uninstall.
			return nil
		})
	})
}
