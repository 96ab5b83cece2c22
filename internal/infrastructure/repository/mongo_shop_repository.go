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
)

// MongoShopRepository implements ShopRepository using MongoDB. Access
// tokens are encrypted at rest.
type MongoShopRepository struct {
	collection *mongo.Collection
	crypto     ports.EncryptionService
}

// NewMongoShopRepository creates a new MongoDB shop repository.
func NewMongoShopRepository(db *mongo.Database, crypto ports.EncryptionService) ports.ShopRepository {
	return &MongoShopRepository{
		collection: db.Collection("shops"),
		crypto:     crypto,
	}
}

func (r *MongoShopRepository) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid shop id %q: %w", id, err)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoShopRepository) GetByDomain(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	return r.findOne(ctx, bson.M{"domain": shopDomain})
}

func (r *MongoShopRepository) findOne(ctx context.Context, filter bson.M) (*domain.Shop, error) {
	var doc entity.ShopDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	token := doc.EncryptedToken
	if token != "" && token != domain.RedactedToken {
		token, err = r.crypto.Decrypt(doc.EncryptedToken)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt access token: %w", err)
		}
	}
	return doc.ToDomain(token), nil
}

// Save inserts a new shop or replaces an existing one. The uninstall
// flow rewrites the domain, so replacement is keyed by id, not domain.
func (r *MongoShopRepository) Save(ctx context.Context, shop *domain.Shop) error {
	now := time.Now().UTC()
	shop.UpdatedAt = now
	if shop.CreatedAt.IsZero() {
		shop.CreatedAt = now
	}

	token := shop.AccessToken
	if token != "" && token != domain.RedactedToken {
		var err error
		token, err = r.crypto.Encrypt(shop.AccessToken)
		if err != nil {
			return fmt.Errorf("failed to encrypt access token: %w", err)
		}
	}

	doc, err := entity.ShopDocFromDomain(shop, token)
	if err != nil {
		return fmt.Errorf("invalid shop id %q: %w", shop.ID, err)
	}

	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("failed to insert shop: %w", err)
		}
		shop.ID = doc.ID.Hex()
		return nil
	}

	// Replace through $set so an in-flight lock marker survives the save.
	update := bson.M{"$set": bson.M{
		"domain":          doc.Domain,
		"encrypted_token": doc.EncryptedToken,
		"uninstalled_at":  doc.UninstalledAt,
		"updated_at":      doc.UpdatedAt,
	}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update); err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}
	return nil
}

// WithLock serializes shop-level mutations such as uninstall, waiting
// for a concurrent holder instead of failing fast.
func (r *MongoShopRepository) WithLock(ctx context.Context, shopID string, fn func(ctx context.Context) error) error {
	oid, err := primitive.ObjectIDFromHex(shopID)
	if err != nil {
		return fmt.Errorf("invalid shop id %q: %w", shopID, err)
	}
	return withBlockingLock(ctx, r.collection, bson.M{"_id": oid}, fn)
}
