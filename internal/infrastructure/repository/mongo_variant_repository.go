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

// MongoVariantRepository implements VariantRepository using MongoDB.
type MongoVariantRepository struct {
	variants *mongo.Collection
	products *mongo.Collection
}

// NewMongoVariantRepository creates a new MongoDB variant repository.
func NewMongoVariantRepository(db *mongo.Database) ports.VariantRepository {
	return &MongoVariantRepository{
		variants: db.Collection("variants"),
		products: db.Collection("products"),
	}
}

// UpsertMany bulk-upserts variants under a product. The product must
// belong to the same shop; a mismatch is an invariant violation, not a
// retryable condition.
func (r *MongoVariantRepository) UpsertMany(ctx context.Context, shopID, productID string, rows []domain.VariantImport) error {
	if len(rows) == 0 {
		return nil
	}

	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("invalid product id %q: %w", productID, err)
	}
	if err := r.products.FindOne(ctx, bson.M{"_id": oid, "shop_id": shopID}).Err(); err == mongo.ErrNoDocuments {
		return fmt.Errorf("product %s does not belong to shop %s", productID, shopID)
	} else if err != nil {
		return fmt.Errorf("failed to verify product ownership: %w", err)
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"shop_id": shopID, "shopify_uuid": row.ShopifyUUID}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"title":      row.Title,
					"updated_at": now,
				},
				"$setOnInsert": bson.M{
					"shop_id":      shopID,
					"product_id":   productID,
					"shopify_uuid": row.ShopifyUUID,
					"kind":         string(domain.VariantKindStandard),
					"created_at":   now,
				},
			}).
			SetUpsert(true))
	}

	_, err = r.variants.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert variants: %w", err)
	}
	return nil
}

func (r *MongoVariantRepository) ListByProduct(ctx context.Context, shopID, productID string) ([]*domain.Variant, error) {
	cursor, err := r.variants.Find(ctx, bson.M{"shop_id": shopID, "product_id": productID})
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Variant
	for cursor.Next(ctx) {
		var doc entity.VariantDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode variant: %w", err)
		}
		out = append(out, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}
