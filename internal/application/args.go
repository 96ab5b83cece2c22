package application

import "encoding/json"

// Job names on the shared queue.
const (
	JobProductsCreate      = "shopify.webhooks.products_create"
	JobProductsUpdate      = "shopify.webhooks.products_update"
	JobProductsDelete      = "shopify.webhooks.products_delete"
	JobCollectionsCreate   = "shopify.webhooks.collections_create"
	JobCollectionsUpdate   = "shopify.webhooks.collections_update"
	JobCollectionsDelete   = "shopify.webhooks.collections_delete"
	JobAppUninstalled      = "shopify.webhooks.app_uninstalled"
	JobCustomersDataReq    = "shopify.webhooks.customers_data_request"
	JobCustomersRedact     = "shopify.webhooks.customers_redact"
	JobAfterAuthenticate   = "shopify.after_authenticate"
	JobSyncProducts        = "shopify.sync_products"
	JobSyncCollections     = "shopify.sync_collections"
)

// webhookJobs maps Shopify webhook topics to the jobs that process them.
var webhookJobs = map[string]string{
	"products/create":        JobProductsCreate,
	"products/update":        JobProductsUpdate,
	"products/delete":        JobProductsDelete,
	"collections/create":     JobCollectionsCreate,
	"collections/update":     JobCollectionsUpdate,
	"collections/delete":     JobCollectionsDelete,
	"app/uninstalled":        JobAppUninstalled,
	"customers/data_request": JobCustomersDataReq,
	"customers/redact":       JobCustomersRedact,
}

// JobForTopic returns the job name handling a webhook topic.
func JobForTopic(topic string) (string, bool) {
	name, ok := webhookJobs[topic]
	return name, ok
}

// WebhookTopics lists every topic the app subscribes to on install.
func WebhookTopics() []string {
	topics := make([]string, 0, len(webhookJobs))
	for topic := range webhookJobs {
		topics = append(topics, topic)
	}
	return topics
}

// WebhookArgs is the argument object of every webhook job: the tenant
// domain plus the raw event payload.
type WebhookArgs struct {
	ShopDomain string          `json:"shop_domain"`
	Webhook    json.RawMessage `json:"webhook"`
}

// SyncArgs is the argument object of the full-resync jobs.
type SyncArgs struct {
	ShopID string `json:"shop_id"`
}

// AfterAuthenticateArgs is the argument object of the post-install job.
type AfterAuthenticateArgs struct {
	ShopDomain string `json:"shop_domain"`
}
