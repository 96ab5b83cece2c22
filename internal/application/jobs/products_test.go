package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"soundfy-core-shopify-layer/internal/application"
	"soundfy-core-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

func webhookArgs(t *testing.T, shopDomain, payload string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(application.WebhookArgs{ShopDomain: shopDomain, Webhook: json.RawMessage(payload)})
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	return raw
}

const tshirtPayload = `{
	"id": 788032119674292922,
	"title": "Example T-Shirt",
	"status": "active",
	"image": {"src": "https://cdn.example.com/tshirt.png"},
	"variants": [
		{"id": 642667041472713922, "title": "Small"}
	]
}`

func acmeShop() *domain.Shop {
	return &domain.Shop{ID: "shop-acme", Domain: "acme.myshopify.com", AccessToken: "shpat_x"}
}

func TestProductsCreateBuildsProductAndLinkedVariant(t *testing.T) {
	s := newStore(acmeShop())
	job := NewProductsCreateJob(testScope(s), &productRepo{s: s}, &variantRepo{s: s}, zerolog.Nop())

	if err := job.Perform(context.Background(), webhookArgs(t, "acme.myshopify.com", tshirtPayload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	product := s.products[key("shop-acme", "788032119674292922")]
	if product == nil {
		t.Fatal("expected product row")
	}
	if product.Title != "Example T-Shirt" || product.Status != domain.ProductStatusActive {
		t.Fatalf("unexpected product %+v", product)
	}
	if product.ImageURL != "https://cdn.example.com/tshirt.png" {
		t.Fatalf("unexpected image url %q", product.ImageURL)
	}

	variant := s.variants[key("shop-acme", "642667041472713922")]
	if variant == nil {
		t.Fatal("expected variant row")
	}
	if variant.ProductID != product.ID {
		t.Fatalf("variant linked to %q, expected %q", variant.ProductID, product.ID)
	}
	if variant.Title != "Small" {
		t.Fatalf("unexpected variant title %q", variant.Title)
	}
}

func TestProductsCreateRedeliveryIsANoOp(t *testing.T) {
	s := newStore(acmeShop())
	job := NewProductsCreateJob(testScope(s), &productRepo{s: s}, &variantRepo{s: s}, zerolog.Nop())
	args := webhookArgs(t, "acme.myshopify.com", tshirtPayload)

	if err := job.Perform(context.Background(), args); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	firstID := s.products[key("shop-acme", "788032119674292922")].ID

	if err := job.Perform(context.Background(), args); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	if len(s.products) != 1 || len(s.variants) != 1 {
		t.Fatalf("expected 1 product and 1 variant, got %d and %d", len(s.products), len(s.variants))
	}
	if s.products[key("shop-acme", "788032119674292922")].ID != firstID {
		t.Fatal("redelivery must not replace the row")
	}
}

func TestProductsCreateDoesNotResurrectDiscardedProducts(t *testing.T) {
	s := newStore(acmeShop())
	discarded := time.Now().UTC()
	s.products[key("shop-acme", "788032119674292922")] = &domain.Product{
		ID: "p-old", ShopID: "shop-acme", ShopifyUUID: "788032119674292922",
		Title: "Old Title", DiscardedAt: &discarded,
	}
	job := NewProductsCreateJob(testScope(s), &productRepo{s: s}, &variantRepo{s: s}, zerolog.Nop())

	if err := job.Perform(context.Background(), webhookArgs(t, "acme.myshopify.com", tshirtPayload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	product := s.products[key("shop-acme", "788032119674292922")]
	if product.Title != "Old Title" {
		t.Fatalf("discarded product was mutated: %+v", product)
	}
	if product.DiscardedAt == nil {
		t.Fatal("discard marker must survive")
	}
	if len(s.variants) != 0 {
		t.Fatal("no variants may be written under a discarded product")
	}
}

func TestProductsUpdateSkipsDiscardedProducts(t *testing.T) {
	s := newStore(acmeShop())
	discarded := time.Now().UTC()
	s.products[key("shop-acme", "788032119674292922")] = &domain.Product{
		ID: "p-old", ShopID: "shop-acme", ShopifyUUID: "788032119674292922",
		Title: "Old Title", DiscardedAt: &discarded,
	}
	job := NewProductsUpdateJob(testScope(s), &productRepo{s: s}, &variantRepo{s: s}, zerolog.Nop())

	if err := job.Perform(context.Background(), webhookArgs(t, "acme.myshopify.com", tshirtPayload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.products[key("shop-acme", "788032119674292922")].Title; got != "Old Title" {
		t.Fatalf("stale update resurrected the product: %q", got)
	}
}

func TestProductsCreateLockContention(t *testing.T) {
	s := newStore(acmeShop())
	products := &productRepo{s: s}
	existing, _ := products.CreateOrFind(context.Background(), "shop-acme", "788032119674292922")
	existing.Title = "Untouched"
	s.locked[existing.ID] = true

	job := NewProductsCreateJob(testScope(s), products, &variantRepo{s: s}, zerolog.Nop())
	err := job.Perform(context.Background(), webhookArgs(t, "acme.myshopify.com", tshirtPayload))

	if !errors.Is(err, domain.ErrRecordLocked) {
		t.Fatalf("expected ErrRecordLocked, got %v", err)
	}
	if !domain.IsRetryable(err) {
		t.Fatal("lock contention must be retryable")
	}
	if existing.Title != "Untouched" {
		t.Fatal("losing worker must not mutate the row")
	}
	if len(s.variants) != 0 {
		t.Fatal("losing worker must not write variants")
	}
}

func TestProductsCreateIsTenantScoped(t *testing.T) {
	other := &domain.Shop{ID: "shop-other", Domain: "other.myshopify.com"}
	s := newStore(acmeShop(), other)
	// The other tenant already mirrors the same Shopify uuid.
	s.products[key("shop-other", "788032119674292922")] = &domain.Product{
		ID: "p-other", ShopID: "shop-other", ShopifyUUID: "788032119674292922", Title: "Other Tenant",
	}
	job := NewProductsCreateJob(testScope(s), &productRepo{s: s}, &variantRepo{s: s}, zerolog.Nop())

	if err := job.Perform(context.Background(), webhookArgs(t, "acme.myshopify.com", tshirtPayload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.products[key("shop-other", "788032119674292922")].Title; got != "Other Tenant" {
		t.Fatalf("webhook leaked across tenants: %q", got)
	}
	if s.products[key("shop-acme", "788032119674292922")] == nil {
		t.Fatal("expected a separate row for the delivering tenant")
	}
}

func TestProductsCreateUnknownShopIsDiscarded(t *testing.T) {
	s := newStore()
	job := NewProductsCreateJob(testScope(s), &productRepo{s: s}, &variantRepo{s: s}, zerolog.Nop())

	err := job.Perform(context.Background(), webhookArgs(t, "ghost.myshopify.com", tshirtPayload))
	if !errors.Is(err, domain.ErrShopNotFound) {
		t.Fatalf("expected ErrShopNotFound, got %v", err)
	}
	if domain.IsRetryable(err) {
		t.Fatal("unknown shop must not be retried")
	}
}

func TestProductsDeleteDiscardsProductAndVariants(t *testing.T) {
	s := newStore(acmeShop())
	create := NewProductsCreateJob(testScope(s), &productRepo{s: s}, &variantRepo{s: s}, zerolog.Nop())
	if err := create.Perform(context.Background(), webhookArgs(t, "acme.myshopify.com", tshirtPayload)); err != nil {
		t.Fatalf("setup: %v", err)
	}

	del := NewProductsDeleteJob(testScope(s), &productRepo{s: s}, zerolog.Nop())
	if err := del.Perform(context.Background(), webhookArgs(t, "acme.myshopify.com", `{"id": 788032119674292922}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	product := s.products[key("shop-acme", "788032119674292922")]
	if !product.Discarded() {
		t.Fatal("expected product discarded")
	}
	variant := s.variants[key("shop-acme", "642667041472713922")]
	if !variant.Discarded() {
		t.Fatal("expected discard cascaded to variants")
	}
	// Deletes are soft: the rows survive.
	if len(s.products) != 1 || len(s.variants) != 1 {
		t.Fatal("soft delete must keep the rows")
	}
}

func TestProductsDeleteBeforeCreateIsRetryable(t *testing.T) {
	s := newStore(acmeShop())
	del := NewProductsDeleteJob(testScope(s), &productRepo{s: s}, zerolog.Nop())

	err := del.Perform(context.Background(), webhookArgs(t, "acme.myshopify.com", `{"id": 788032119674292922}`))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !domain.IsRetryable(err) {
		t.Fatal("out-of-order delete must be retried")
	}
}

func TestProductsDeleteRedeliveryIsANoOp(t *testing.T) {
	s := newStore(acmeShop())
	discarded := time.Now().UTC()
	s.products[key("shop-acme", "788032119674292922")] = &domain.Product{
		ID: "p-1", ShopID: "shop-acme", ShopifyUUID: "788032119674292922", DiscardedAt: &discarded,
	}
	del := NewProductsDeleteJob(testScope(s), &productRepo{s: s}, zerolog.Nop())

	if err := del.Perform(context.Background(), webhookArgs(t, "acme.myshopify.com", `{"id": 788032119674292922}`)); err != nil {
		t.Fatalf("expected success for already discarded product, got %v", err)
	}
}

func TestProductPayloadImageFallback(t *testing.T) {
	var p productPayload
	payload := `{"id": 1, "title": "x", "images": [{"src": "https://cdn.example.com/first.png"}, {"src": "https://cdn.example.com/second.png"}]}`
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := p.imageURL(); got != "https://cdn.example.com/first.png" {
		t.Fatalf("expected first image fallback, got %q", got)
	}

	var empty productPayload
	if err := json.Unmarshal([]byte(`{"id": 2, "title": "y"}`), &empty); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := empty.imageURL(); got != "" {
		t.Fatalf("expected empty image url, got %q", got)
	}
}
