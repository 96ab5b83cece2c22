package jobs

import (
	"context"
	"fmt"
	"time"

	"soundfy-core-shopify-layer/internal/application"
	"soundfy-core-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// store is the in-memory stand-in for the persistence layer, shared by
// every fake repository in these tests. Records a test marks as locked
// make the non-blocking lock fail the way a contended row would.
type store struct {
	shops       map[string]*domain.Shop
	products    map[string]*domain.Product
	variants    map[string]*domain.Variant
	collections map[string]*domain.Collection

	locked map[string]bool // record id -> held by another worker
	nextID int
}

func newStore(shops ...*domain.Shop) *store {
	s := &store{
		shops:       make(map[string]*domain.Shop),
		products:    make(map[string]*domain.Product),
		variants:    make(map[string]*domain.Variant),
		collections: make(map[string]*domain.Collection),
		locked:      make(map[string]bool),
	}
	for _, shop := range shops {
		s.shops[shop.ID] = shop
	}
	return s
}

func (s *store) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func key(shopID, shopifyUUID string) string {
	return shopID + "/" + shopifyUUID
}

type shopRepo struct{ s *store }

func (r *shopRepo) GetByID(_ context.Context, id string) (*domain.Shop, error) {
	return r.s.shops[id], nil
}

func (r *shopRepo) GetByDomain(_ context.Context, shopDomain string) (*domain.Shop, error) {
	for _, shop := range r.s.shops {
		if shop.Domain == shopDomain {
			return shop, nil
		}
	}
	return nil, nil
}

func (r *shopRepo) Save(_ context.Context, shop *domain.Shop) error {
	if shop.ID == "" {
		shop.ID = r.s.id("shop")
	}
	r.s.shops[shop.ID] = shop
	return nil
}

func (r *shopRepo) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type productRepo struct{ s *store }

func (r *productRepo) GetByShopifyUUID(_ context.Context, shopID, shopifyUUID string) (*domain.Product, error) {
	return r.s.products[key(shopID, shopifyUUID)], nil
}

func (r *productRepo) CreateOrFind(_ context.Context, shopID, shopifyUUID string) (*domain.Product, error) {
	k := key(shopID, shopifyUUID)
	if p, ok := r.s.products[k]; ok {
		return p, nil
	}
	p := &domain.Product{ID: r.s.id("p"), ShopID: shopID, ShopifyUUID: shopifyUUID}
	r.s.products[k] = p
	return p, nil
}

func (r *productRepo) Update(_ context.Context, product *domain.Product) error {
	k := key(product.ShopID, product.ShopifyUUID)
	if _, ok := r.s.products[k]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[k] = product
	return nil
}

func (r *productRepo) UpsertMany(ctx context.Context, shopID string, rows []domain.ProductImport) error {
	for _, row := range rows {
		p, _ := r.CreateOrFind(ctx, shopID, row.ShopifyUUID)
		p.Title = row.Title
		p.Status = row.Status
		p.ImageURL = row.ImageURL
	}
	return nil
}

func (r *productRepo) Discard(_ context.Context, shopID, productID string, at time.Time) error {
	for _, p := range r.s.products {
		if p.ShopID == shopID && p.ID == productID {
			p.DiscardedAt = &at
			for _, v := range r.s.variants {
				if v.ShopID == shopID && v.ProductID == productID {
					v.DiscardedAt = &at
				}
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *productRepo) WithNonBlockingLock(ctx context.Context, _, productID string, fn func(ctx context.Context) error) error {
	if r.s.locked[productID] {
		return domain.ErrRecordLocked
	}
	return fn(ctx)
}

type variantRepo struct{ s *store }

func (r *variantRepo) UpsertMany(_ context.Context, shopID, productID string, rows []domain.VariantImport) error {
	for _, row := range rows {
		k := key(shopID, row.ShopifyUUID)
		if v, ok := r.s.variants[k]; ok {
			v.Title = row.Title
			continue
		}
		r.s.variants[k] = &domain.Variant{
			ID:          r.s.id("v"),
			ShopID:      shopID,
			ProductID:   productID,
			ShopifyUUID: row.ShopifyUUID,
			Title:       row.Title,
			Kind:        domain.VariantKindStandard,
		}
	}
	return nil
}

func (r *variantRepo) ListByProduct(_ context.Context, shopID, productID string) ([]*domain.Variant, error) {
	var out []*domain.Variant
	for _, v := range r.s.variants {
		if v.ShopID == shopID && v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

type collectionRepo struct{ s *store }

func (r *collectionRepo) GetByShopifyUUID(_ context.Context, shopID, shopifyUUID string) (*domain.Collection, error) {
	return r.s.collections[key(shopID, shopifyUUID)], nil
}

func (r *collectionRepo) CreateOrFind(_ context.Context, shopID, shopifyUUID string) (*domain.Collection, error) {
	k := key(shopID, shopifyUUID)
	if c, ok := r.s.collections[k]; ok {
		return c, nil
	}
	c := &domain.Collection{ID: r.s.id("c"), ShopID: shopID, ShopifyUUID: shopifyUUID}
	r.s.collections[k] = c
	return c, nil
}

func (r *collectionRepo) Update(_ context.Context, collection *domain.Collection) error {
	k := key(collection.ShopID, collection.ShopifyUUID)
	if _, ok := r.s.collections[k]; !ok {
		return domain.ErrNotFound
	}
	r.s.collections[k] = collection
	return nil
}

func (r *collectionRepo) UpsertMany(ctx context.Context, shopID string, rows []domain.CollectionImport) error {
	for _, row := range rows {
		c, _ := r.CreateOrFind(ctx, shopID, row.ShopifyUUID)
		c.Title = row.Title
	}
	return nil
}

func (r *collectionRepo) Delete(_ context.Context, shopID, collectionID string) error {
	for k, c := range r.s.collections {
		if c.ShopID == shopID && c.ID == collectionID {
			delete(r.s.collections, k)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *collectionRepo) WithNonBlockingLock(ctx context.Context, _, collectionID string, fn func(ctx context.Context) error) error {
	if r.s.locked[collectionID] {
		return domain.ErrRecordLocked
	}
	return fn(ctx)
}

type enqueuedJob struct {
	name string
	args any
}

type fakeQueue struct {
	jobs []enqueuedJob
}

func (q *fakeQueue) Enqueue(_ context.Context, name string, args any) error {
	q.jobs = append(q.jobs, enqueuedJob{name: name, args: args})
	return nil
}

func testScope(s *store) *application.ShopScope {
	return application.NewShopScope(&shopRepo{s: s}, zerolog.Nop())
}
