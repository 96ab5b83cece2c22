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

// MongoCollectionRepository implements CollectionRepository using MongoDB.
type MongoCollectionRepository struct {
	collections *mongo.Collection
}

// NewMongoCollectionRepository creates a new MongoDB collection repository.
func NewMongoCollectionRepository(db *mongo.Database) ports.CollectionRepository {
	return &MongoCollectionRepository{collections: db.Collection("collections")}
}

func (r *MongoCollectionRepository) GetByShopifyUUID(ctx context.Context, shopID, shopifyUUID string) (*domain.Collection, error) {
	var doc entity.CollectionDoc
	err := r.collections.FindOne(ctx, bson.M{"shop_id": shopID, "shopify_uuid": shopifyUUID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return doc.ToDomain(), nil
}

func (r *MongoCollectionRepository) CreateOrFind(ctx context.Context, shopID, shopifyUUID string) (*domain.Collection, error) {
	now := time.Now().UTC()
	filter := bson.M{"shop_id": shopID, "shopify_uuid": shopifyUUID}
	update := bson.M{"$setOnInsert": bson.M{
		"shop_id":      shopID,
		"shopify_uuid": shopifyUUID,
		"created_at":   now,
		"updated_at":   now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc entity.CollectionDoc
	if err := r.collections.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to create or find collection: %w", err)
	}
	return doc.ToDomain(), nil
}

func (r *MongoCollectionRepository) Update(ctx context.Context, collection *domain.Collection) error {
	oid, err := primitive.ObjectIDFromHex(collection.ID)
	if err != nil {
		return fmt.Errorf("invalid collection id %q: %w", collection.ID, err)
	}
	update := bson.M{"$set": bson.M{
		"title":      collection.Title,
		"updated_at": time.Now().UTC(),
	}}
	res, err := r.collections.UpdateOne(ctx, bson.M{"_id": oid, "shop_id": collection.ShopID}, update)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoCollectionRepository) UpsertMany(ctx context.Context, shopID string, rows []domain.CollectionImport) error {
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

	_, err := r.collections.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert collections: %w", err)
	}
	return nil
}

func (r *MongoCollectionRepository) Delete(ctx context.Context, shopID, collectionID string) error {
	oid, err := primitive.ObjectIDFromHex(collectionID)
	if err != nil {
		return fmt.Errorf("invalid collection id %q: %w", collectionID, err)
	}
	res, err := r.collections.DeleteOne(ctx, bson.M{"_id": oid, "shop_id": shopID})
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoCollectionRepository) WithNonBlockingLock(ctx context.Context, shopID, collectionID string, fn func(ctx context.Context) error) error {
	oid, err := primitive.ObjectIDFromHex(collectionID)
	if err != nil {
		return fmt.Errorf("invalid collection id %q: %w", collectionID, err)
	}
	return withNonBlockingLock(ctx, r.collections, bson.M{"_id": oid, "shop_id": shopID}, fn)
}
