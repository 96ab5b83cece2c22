package application

import (
	"context"
	"fmt"
	"sort"

	"soundfy-core-shopify-layer/internal/domain"
	"soundfy-core-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// InstallService completes an app install: it exchanges the OAuth code
// for an access token, creates or revives the shop record, and enqueues
// the post-install job.
type InstallService struct {
	app    goshopify.App
	shops  ports.ShopRepository
	queue  ports.JobQueue
	logger zerolog.Logger
}

// NewInstallService creates the install flow service.
func NewInstallService(app goshopify.App, shops ports.ShopRepository, queue ports.JobQueue, logger zerolog.Logger) *InstallService {
	return &InstallService{app: app, shops: shops, queue: queue, logger: logger}
}

// Install handles the OAuth callback for a shop.
func (s *InstallService) Install(ctx context.Context, shopDomain, code string) (*domain.Shop, error) {
	token, err := s.app.GetAccessToken(ctx, shopDomain, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	shop, err := s.shops.GetByDomain(ctx, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to look up shop: %w", err)
	}
	if shop == nil {
		shop = &domain.Shop{Domain: shopDomain, AccessToken: token}
	} else {
		shop.Reinstall(shopDomain, token)
	}
	if err := s.shops.Save(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to save shop: %w", err)
	}

	s.logger.Info().Str("shop", shopDomain).Msg("Shop installed")

	if err := s.queue.Enqueue(ctx, JobAfterAuthenticate, AfterAuthenticateArgs{ShopDomain: shopDomain}); err != nil {
		return nil, fmt.Errorf("failed to enqueue post-install job: %w", err)
	}
	return shop, nil
}

// WebhookInstaller subscribes a freshly installed shop to every topic
// the app consumes.
type WebhookInstaller struct {
	registrar ports.WebhookRegistrar
	baseURL   string
	logger    zerolog.Logger
}

// NewWebhookInstaller creates the installer. baseURL is the public app
// URL webhook callbacks are addressed to.
func NewWebhookInstaller(registrar ports.WebhookRegistrar, baseURL string, logger zerolog.Logger) *WebhookInstaller {
	return &WebhookInstaller{registrar: registrar, baseURL: baseURL, logger: logger}
}

// InstallAll registers every webhook topic for the shop bound to ctx.
// Rejections (topic already subscribed, address reuse) are logged and
// skipped; transient API failures propagate so the job can retry.
func (w *WebhookInstaller) InstallAll(ctx context.Context) error {
	topics := WebhookTopics()
	sort.Strings(topics)

	for _, topic := range topics {
		callbackURL := fmt.Sprintf("%s/shopify/webhooks/%s", w.baseURL, topicPath(topic))
		err := w.registrar.RegisterWebhook(ctx, topic, callbackURL)
		if err == nil {
			continue
		}
		if domain.IsRetryable(err) {
			return fmt.Errorf("failed to register webhook %s: %w", topic, err)
		}
		w.logger.Warn().Str("topic", topic).Err(err).Msg("Webhook registration rejected, skipping")
	}
	return nil
}

// topicPath maps "products/create" to the route segment
// "products_create".
func topicPath(topic string) string {
	out := make([]byte, len(topic))
	for i := 0; i < len(topic); i++ {
		if topic[i] == '/' {
			out[i] = '_'
		} else {
			out[i] = topic[i]
		}
	}
	return string(out)
}
