package domain

import "encoding/json"

// WebhookEvent is one inbound Shopify webhook delivery. Deliveries are
// at-least-once and unordered; every consumer must be idempotent.
type WebhookEvent struct {
	Topic   string          `json:"topic"`
	Shop    string          `json:"shop"`
	Payload json.RawMessage `json:"payload"`
}
