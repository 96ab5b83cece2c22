package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"soundfy-core-shopify-layer/internal/application"

	"github.com/rs/zerolog"
)

// The GDPR compliance jobs acknowledge Shopify's mandatory webhooks.
// The app stores no customer data, so resolving the shop and logging the
// request is the whole obligation. An unknown shop still fails fatally:
// acknowledging a request for a tenant we never had would be wrong.

// CustomersDataRequestJob handles customers/data_request.
type CustomersDataRequestJob struct {
	scope  *application.ShopScope
	logger zerolog.Logger
}

// NewCustomersDataRequestJob creates the handler.
func NewCustomersDataRequestJob(scope *application.ShopScope, logger zerolog.Logger) *CustomersDataRequestJob {
	return &CustomersDataRequestJob{scope: scope, logger: logger}
}

func (j *CustomersDataRequestJob) Name() string { return application.JobCustomersDataReq }

func (j *CustomersDataRequestJob) Perform(ctx context.Context, args json.RawMessage) error {
	return ackComplianceEvent(ctx, j.scope, j.logger, "customers/data_request", args)
}

// CustomersRedactJob handles customers/redact.
type CustomersRedactJob struct {
	scope  *application.ShopScope
	logger zerolog.Logger
}

// NewCustomersRedactJob creates the handler.
func NewCustomersRedactJob(scope *application.ShopScope, logger zerolog.Logger) *CustomersRedactJob {
	return &CustomersRedactJob{scope: scope, logger: logger}
}

func (j *CustomersRedactJob) Name() string { return application.JobCustomersRedact }

func (j *CustomersRedactJob) Perform(ctx context.Context, args json.RawMessage) error {
	return ackComplianceEvent(ctx, j.scope, j.logger, "customers/redact", args)
}

func ackComplianceEvent(ctx context.Context, scope *application.ShopScope, logger zerolog.Logger, topic string, args json.RawMessage) error {
	var a application.WebhookArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("failed to decode job args: %w", err)
	}

	return scope.Within(ctx, application.ScopeForDomain(a.ShopDomain), func(ctx context.Context) error {
		logger.Info().Str("topic", topic).Str("shop", a.ShopDomain).
			Msg("Compliance webhook acknowledged, no customer data stored")
		return nil
	})
}
