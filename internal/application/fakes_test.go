package application

import (
	"context"
	"fmt"
	"time"

	"soundfy-core-shopify-layer/internal/domain"
)

// In-memory fakes of the persistence ports, shared by the tests in this
// package.

type fakeShopRepo struct {
	shops map[string]*domain.Shop
}

func newFakeShopRepo(shops ...*domain.Shop) *fakeShopRepo {
	r := &fakeShopRepo{shops: make(map[string]*domain.Shop)}
	for _, s := range shops {
		r.shops[s.ID] = s
	}
	return r
}

func (r *fakeShopRepo) GetByID(_ context.Context, id string) (*domain.Shop, error) {
	return r.shops[id], nil
}

func (r *fakeShopRepo) GetByDomain(_ context.Context, shopDomain string) (*domain.Shop, error) {
	for _, s := range r.shops {
		if s.Domain == shopDomain {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeShopRepo) Save(_ context.Context, shop *domain.Shop) error {
	if shop.ID == "" {
		shop.ID = fmt.Sprintf("shop-%d", len(r.shops)+1)
	}
	r.shops[shop.ID] = shop
	return nil
}

func (r *fakeShopRepo) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeProductRepo struct {
	products map[string]*domain.Product
	nextID   int
	upserts  int

	// afterUpsert, when set, runs at the end of UpsertMany. Tests use it
	// to mutate state between the product and variant passes.
	afterUpsert func()
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func productKey(shopID, shopifyUUID string) string {
	return shopID + "/" + shopifyUUID
}

func (r *fakeProductRepo) GetByShopifyUUID(_ context.Context, shopID, shopifyUUID string) (*domain.Product, error) {
	return r.products[productKey(shopID, shopifyUUID)], nil
}

func (r *fakeProductRepo) CreateOrFind(_ context.Context, shopID, shopifyUUID string) (*domain.Product, error) {
	key := productKey(shopID, shopifyUUID)
	if p, ok := r.products[key]; ok {
		return p, nil
	}
	r.nextID++
	p := &domain.Product{ID: fmt.Sprintf("p-%d", r.nextID), ShopID: shopID, ShopifyUUID: shopifyUUID}
	r.products[key] = p
	return p, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	key := productKey(product.ShopID, product.ShopifyUUID)
	if _, ok := r.products[key]; !ok {
		return domain.ErrNotFound
	}
	r.products[key] = product
	return nil
}

func (r *fakeProductRepo) UpsertMany(ctx context.Context, shopID string, rows []domain.ProductImport) error {
	r.upserts++
	for _, row := range rows {
		p, _ := r.CreateOrFind(ctx, shopID, row.ShopifyUUID)
		p.Title = row.Title
		p.Status = row.Status
		p.ImageURL = row.ImageURL
	}
	if r.afterUpsert != nil {
		r.afterUpsert()
	}
	return nil
}

func (r *fakeProductRepo) Discard(_ context.Context, shopID, productID string, at time.Time) error {
	for _, p := range r.products {
		if p.ShopID == shopID && p.ID == productID {
			p.DiscardedAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeProductRepo) WithNonBlockingLock(ctx context.Context, _, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// remove drops a row so tests can simulate a parent deleted between the
// batch upsert and the variant pass.
func (r *fakeProductRepo) remove(shopID, shopifyUUID string) {
	delete(r.products, productKey(shopID, shopifyUUID))
}

type fakeVariantRepo struct {
	variants map[string]*domain.Variant
	nextID   int
	upserts  []string // product ids in upsert order
}

func newFakeVariantRepo() *fakeVariantRepo {
	return &fakeVariantRepo{variants: make(map[string]*domain.Variant)}
}

func (r *fakeVariantRepo) UpsertMany(_ context.Context, shopID, productID string, rows []domain.VariantImport) error {
	r.upserts = append(r.upserts, productID)
	for _, row := range rows {
		key := shopID + "/" + row.ShopifyUUID
		if v, ok := r.variants[key]; ok {
			v.Title = row.Title
			continue
		}
		r.nextID++
		r.variants[key] = &domain.Variant{
			ID:          fmt.Sprintf("v-%d", r.nextID),
			ShopID:      shopID,
			ProductID:   productID,
			ShopifyUUID: row.ShopifyUUID,
			Title:       row.Title,
			Kind:        domain.VariantKindStandard,
		}
	}
	return nil
}

func (r *fakeVariantRepo) ListByProduct(_ context.Context, shopID, productID string) ([]*domain.Variant, error) {
	var out []*domain.Variant
	for _, v := range r.variants {
		if v.ShopID == shopID && v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeCollectionRepo struct {
	collections map[string]*domain.Collection
	nextID      int
}

func newFakeCollectionRepo() *fakeCollectionRepo {
	return &fakeCollectionRepo{collections: make(map[string]*domain.Collection)}
}

func (r *fakeCollectionRepo) GetByShopifyUUID(_ context.Context, shopID, shopifyUUID string) (*domain.Collection, error) {
	return r.collections[shopID+"/"+shopifyUUID], nil
}

func (r *fakeCollectionRepo) CreateOrFind(_ context.Context, shopID, shopifyUUID string) (*domain.Collection, error) {
	key := shopID + "/" + shopifyUUID
	if c, ok := r.collections[key]; ok {
		return c, nil
	}
	r.nextID++
	c := &domain.Collection{ID: fmt.Sprintf("c-%d", r.nextID), ShopID: shopID, ShopifyUUID: shopifyUUID}
	r.collections[key] = c
	return c, nil
}

func (r *fakeCollectionRepo) Update(_ context.Context, collection *domain.Collection) error {
	key := collection.ShopID + "/" + collection.ShopifyUUID
	if _, ok := r.collections[key]; !ok {
		return domain.ErrNotFound
	}
	r.collections[key] = collection
	return nil
}

func (r *fakeCollectionRepo) UpsertMany(ctx context.Context, shopID string, rows []domain.CollectionImport) error {
	for _, row := range rows {
		c, _ := r.CreateOrFind(ctx, shopID, row.ShopifyUUID)
		c.Title = row.Title
	}
	return nil
}

func (r *fakeCollectionRepo) Delete(_ context.Context, shopID, collectionID string) error {
	for key, c := range r.collections {
		if c.ShopID == shopID && c.ID == collectionID {
			delete(r.collections, key)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeCollectionRepo) WithNonBlockingLock(ctx context.Context, _, _ string, fn func(ctx context.Context) error) error {
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
