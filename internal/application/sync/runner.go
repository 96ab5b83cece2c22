package sync

import (
	"context"
	"fmt"

	"soundfy-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// StepRunner checkpoints one logical sync step (such as "import all
// products of shop X") behind a durable resume cursor. The cursor is
// persisted after each applied batch, so a crashed or retried run
// re-enumerates from the last committed page instead of page one.
// Idempotence is batch-level: the page in flight when a crash hits may
// be applied twice, which the upsert reconciler absorbs.
type StepRunner struct {
	cursors ports.CursorStore
	logger  zerolog.Logger
}

// NewStepRunner creates a runner over a durable cursor store.
func NewStepRunner(cursors ports.CursorStore, logger zerolog.Logger) *StepRunner {
	return &StepRunner{cursors: cursors, logger: logger}
}

// RunStep drives one sync step to completion. open builds a stream
// positioned after the given cursor; apply commits one batch. The step's
// cursor is cleared once the stream reports no further pages, so the
// next invocation starts fresh.
func RunStep[T any](
	ctx context.Context,
	r *StepRunner,
	stepKey string,
	open func(after string) ports.Stream[T],
	apply func(ctx context.Context, batch []T) error,
) error {
	after, err := r.cursors.Get(ctx, stepKey)
	if err != nil {
		return err
	}
	if after != "" {
		r.logger.Info().Str("step", stepKey).Msg("Resuming sync step from persisted cursor")
	}

	stream := open(after)
	for {
		batch, endCursor, ok, err := stream.Next(ctx)
		if err != nil {
			return fmt.Errorf("sync step %s: %w", stepKey, err)
		}
		if !ok {
			break
		}

		if err := apply(ctx, batch); err != nil {
			return fmt.Errorf("sync step %s: %w", stepKey, err)
		}
		// Checkpoint only after the batch committed: a crash between
		// apply and Set re-applies one batch, never skips one.
		if err := r.cursors.Set(ctx, stepKey, endCursor); err != nil {
			return fmt.Errorf("sync step %s: %w", stepKey, err)
		}
	}

	return r.cursors.Clear(ctx, stepKey)
}
