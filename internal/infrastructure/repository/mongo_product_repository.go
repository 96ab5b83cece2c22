package repository

import (
	"context"
	"fmt"
	"time"

	"soundfy-core-shopify-layer/internal/domain"
	"soundfy-core-shopify-layer/internal/infrastructure/repository/entity"
	"soundfy-core-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository implements ProductRepository using MongoDB.
// Every filter carries shop_id so one tenant can never reach another
// tenant's rows.
type MongoProductRepository struct {
	products *mongo.Collection
	variants *mongo.Collection
}

// NewMongoProductRepository creates a new MongoDB product repository.
func NewMongoProductRepository(db *mongo.Database) ports.ProductRepository {
	return &MongoProductRepository{
		products: db.Collection("products"),
		variants: db.Collection("variants"),
	}
}

func (r *MongoProductRepository) GetByShopifyUUID(ctx context.Context, shopID, shopifyUUID string) (*domain.Product, error) {
	var doc entity.ProductDoc
	err := r.products.FindOne(ctx, bson.M{"shop_id": shopID, "shopify_uuid": shopifyUUID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.ToDomain(), nil
}

func (r *MongoProductRepository) CreateOrFind(ctx context.Context, shopID, shopifyUUID string) (*domain.Product, error) {
	now := time.Now().UTC()
	filter := bson.M{"shop_id": shopID, "shopify_uuid": shopifyUUID}
	update := bson.M{"$setOnInsert": bson.M{
		"shop_id":      shopID,
		"shopify_uuid": shopifyUUID,
		"created_at":   now,
		"updated_at":   now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc entity.ProductDoc
	if err := r.products.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to create or find product: %w", err)
	}
	return doc.ToDomain(), nil
}

// Update writes only the reconciler-owned fields. Local markers such as
// discarded_at are never touched here.
func (r *MongoProductRepository) Update(ctx context.Context, product *domain.Product) error {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return fmt.Errorf("invalid product id %q: %w", product.ID, err)
	}
	update := bson.M{"$set": bson.M{
		"title":      product.Title,
		"status":     string(product.Status),
		"image_url":  product.ImageURL,
		"updated_at": time.Now().UTC(),
	}}
	res, err := r.products.UpdateOne(ctx, bson.M{"_id": oid, "shop_id": product.ShopID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertMany bulk-upserts one import batch. On conflict only title,
// status and image_url change; insertion also sets the unique key and
// created_at.
func (r *MongoProductRepository) UpsertMany(ctx context.Context, shopID string, rows []domain.ProductImport) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"shop_id": shopID, "shopify_uuid": row.ShopifyUUID}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"title":      row.Title,
					"status":     string(row.Status),
					"image_url":  row.ImageURL,
					"updated_at": now,
				},
				"$setOnInsert": bson.M{
					"shop_id":      shopID,
					"shopify_uuid": row.ShopifyUUID,
					"created_at":   now,
				},
			}).
			SetUpsert(true))
	}

	_, err := r.products.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert products: %w", err)
	}
	return nil
}

// Discard soft-deletes the product and cascades the marker to its
// variants, mirroring the delete webhook semantics.
func (r *MongoProductRepository) Discard(ctx context.Context, shopID, productID string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("invalid product id %q: %w", productID, err)
	}

	res, err := r.products.UpdateOne(ctx,
		bson.M{"_id": oid, "shop_id": shopID},
		bson.M{"$set": bson.M{"discarded_at": at, "updated_at": at}})
	if err != nil {
		return fmt.Errorf("failed to discard product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}

	_, err = r.variants.UpdateMany(ctx,
		bson.M{"shop_id": shopID, "product_id": productID},
		bson.M{"$set": bson.M{"discarded_at": at, "updated_at": at}})
	if err != nil {
		return fmt.Errorf("failed to discard variants: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) WithNonBlockingLock(ctx context.Context, shopID, productID string, fn func(ctx context.Context) error) error {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("invalid product id %q: %w", productID, err)
	}
	return withNonBlockingLock(ctx, r.products, bson.M{"_id": oid, "shop_id": shopID}, fn)
}
