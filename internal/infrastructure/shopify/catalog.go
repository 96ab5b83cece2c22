package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"soundfy-core-shopify-layer/internal/domain"
	"soundfy-core-shopify-layer/internal/ports"
)

// Catalog adapts the GraphQL client to the paginated read surface the
// sync jobs consume. It also registers webhook subscriptions.
type Catalog struct {
	client *Client
}

// NewCatalog creates a catalog over an Admin GraphQL client.
func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client}
}

var _ ports.Catalog = (*Catalog)(nil)
var _ ports.WebhookRegistrar = (*Catalog)(nil)

type productNode struct {
	ID            domain.RemoteID `json:"id"`
	Title         string          `json:"title"`
	Status        string          `json:"status"`
	FeaturedImage *struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
	Variants struct {
		Nodes []variantNode `json:"nodes"`
	} `json:"variants"`
}

type variantNode struct {
	ID    domain.RemoteID `json:"id"`
	Title string          `json:"title"`
}

type collectionNode struct {
	ID    domain.RemoteID `json:"id"`
	Title string          `json:"title"`
}

// ProductBatches opens a product stream starting after the given cursor.
func (c *Catalog) ProductBatches(limit int, after string) ports.Stream[domain.RemoteProduct] {
	enum := NewQueryEnumerator(c.client, EnumeratorConfig{
		Query: getProductsQuery,
		Path:  []string{"products"},
		Limit: limit,
		After: after,
	})
	return &productStream{enum: enum}
}

// CollectionBatches opens a collection stream starting after the given
// cursor.
func (c *Catalog) CollectionBatches(limit int, after string) ports.Stream[domain.RemoteCollection] {
	enum := NewQueryEnumerator(c.client, EnumeratorConfig{
		Query: getCollectionsQuery,
		Path:  []string{"collections"},
		Limit: limit,
		After: after,
	})
	return &collectionStream{enum: enum}
}

// RegisterWebhook subscribes the shop bound to ctx to a topic like
// "products/create".
func (c *Catalog) RegisterWebhook(ctx context.Context, topic, callbackURL string) error {
	variables := map[string]any{
		"topic": topicEnum(topic),
		"webhookSubscription": map[string]any{
			"callbackUrl": callbackURL,
			"format":      "JSON",
		},
	}
	_, err := c.client.Mutate(ctx, webhookSubscriptionCreateMutation, variables, "webhookSubscriptionCreate")
	if err != nil {
		return fmt.Errorf("failed to register webhook %s: %w", topic, err)
	}
	return nil
}

// topicEnum maps "products/create" to the GraphQL enum PRODUCTS_CREATE.
func topicEnum(topic string) string {
	return strings.ToUpper(strings.ReplaceAll(topic, "/", "_"))
}

type productStream struct {
	enum *QueryEnumerator
}

func (s *productStream) Next(ctx context.Context) ([]domain.RemoteProduct, string, bool, error) {
	batch, ok, err := s.enum.Next(ctx)
	if err != nil || !ok {
		return nil, "", false, err
	}

	out := make([]domain.RemoteProduct, 0, len(batch.Nodes))
	for _, raw := range batch.Nodes {
		var node productNode
		if err := json.Unmarshal(raw, &node); err != nil {
			return nil, "", false, fmt.Errorf("failed to decode product node: %w", err)
		}
		product := domain.RemoteProduct{
			ID:     node.ID,
			Title:  node.Title,
			Status: node.Status,
		}
		if node.FeaturedImage != nil {
			product.ImageURL = node.FeaturedImage.URL
		}
		for _, v := range node.Variants.Nodes {
			product.Variants = append(product.Variants, domain.RemoteVariant{ID: v.ID, Title: v.Title})
		}
		out = append(out, product)
	}
	return out, batch.EndCursor, true, nil
}

type collectionStream struct {
	enum *QueryEnumerator
}

func (s *collectionStream) Next(ctx context.Context) ([]domain.RemoteCollection, string, bool, error) {
	batch, ok, err := s.enum.Next(ctx)
	if err != nil || !ok {
		return nil, "", false, err
	}

	out := make([]domain.RemoteCollection, 0, len(batch.Nodes))
	for _, raw := range batch.Nodes {
		var node collectionNode
		if err := json.Unmarshal(raw, &node); err != nil {
			return nil, "", false, fmt.Errorf("failed to decode collection node: %w", err)
		}
		out = append(out, domain.RemoteCollection{ID: node.ID, Title: node.Title})
	}
	return out, batch.EndCursor, true, nil
}
