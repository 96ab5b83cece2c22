package entity

import (
	"time"

	"soundfy-core-shopify-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShopDoc is the MongoDB document for a shop. The access token is stored
// encrypted; the repository decrypts on the way out.
type ShopDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Domain         string             `bson:"domain"`
	EncryptedToken string             `bson:"encrypted_token"`
	UninstalledAt  *time.Time         `bson:"uninstalled_at,omitempty"`
	LockedUntil    *time.Time         `bson:"locked_until,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

// ToDomain converts the document, substituting the decrypted token.
func (d *ShopDoc) ToDomain(accessToken string) *domain.Shop {
	return &domain.Shop{
		ID:            d.ID.Hex(),
		Domain:        d.Domain,
		AccessToken:   accessToken,
		UninstalledAt: d.UninstalledAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ShopDocFromDomain converts a domain shop, substituting the encrypted
// token.
func ShopDocFromDomain(shop *domain.Shop, encryptedToken string) (*ShopDoc, error) {
	doc := &ShopDoc{
		Domain:         shop.Domain,
		EncryptedToken: encryptedToken,
		UninstalledAt:  shop.UninstalledAt,
		CreatedAt:      shop.CreatedAt,
		UpdatedAt:      shop.UpdatedAt,
	}
	if shop.ID != "" {
		id, err := primitive.ObjectIDFromHex(shop.ID)
		if err != nil {
			return nil, err
		}
		doc.ID = id
	}
	return doc, nil
}
