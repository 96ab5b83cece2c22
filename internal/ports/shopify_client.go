package ports

import (
	"context"

	"soundfy-core-shopify-layer/internal/domain"
)

// Stream is one lazy, restartable sequence of page batches from a
// paginated Admin API query. Next issues one request per pull and
// reports ok=false once the remote signals no further pages. Consumers
// must rely on ok, not on batch size: a page may legitimately be empty
// while more pages remain.
type Stream[T any] interface {
	Next(ctx context.Context) (batch []T, endCursor string, ok bool, err error)
}

// Catalog is the paginated read surface of the Shopify Admin API. Each
// method opens a fresh stream starting after the given cursor; pass an
// empty cursor to start from the first page.
type Catalog interface {
	ProductBatches(limit int, after string) Stream[domain.RemoteProduct]
	CollectionBatches(limit int, after string) Stream[domain.RemoteCollection]
}

// WebhookRegistrar subscribes the app to a webhook topic on the shop
// bound to ctx.
type WebhookRegistrar interface {
	RegisterWebhook(ctx context.Context, topic, callbackURL string) error
}

// CursorStore durably maps a sync step to its resume cursor so an
// interrupted full resync continues from the last committed page.
type CursorStore interface {
	Get(ctx context.Context, stepKey string) (string, error)
	Set(ctx context.Context, stepKey, cursor string) error
	Clear(ctx context.Context, stepKey string) error
}

// JobQueue enqueues background jobs on the shared durable queue.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, args any) error
}
