package domain

import "errors"

var (
	// ErrShopNotFound means a job referenced a shop domain that has no
	// installed shop record. Jobs carrying it are discarded, never retried.
	ErrShopNotFound = errors.New("shop not found")

	// ErrRecordLocked means another worker currently holds the
	// non-blocking lock on the record. The queue's retry policy
	// reschedules the job.
	ErrRecordLocked = errors.New("record already locked by another process")

	// ErrNotFound means a tenant-owned record does not exist yet. Webhook
	// deliveries are unordered, so this is usually transient.
	ErrNotFound = errors.New("record not found")
)

// RetryableError is implemented by error kinds that carry their own
// retry semantics, such as the Shopify API error taxonomy.
type RetryableError interface {
	error
	Retryable() bool
}

// IsRetryable reports whether a failed job should be rescheduled.
// ErrShopNotFound is deliberately fatal: a domain mismatch is not transient.
func IsRetryable(err error) bool {
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return errors.Is(err, ErrRecordLocked) || errors.Is(err, ErrNotFound)
}
