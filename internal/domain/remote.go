package domain

import (
	"encoding/json"
	"strings"
)

// RemoteID is a Shopify record identifier as it appears on the wire.
// GraphQL sends global ids ("gid://shopify/Product/123"), REST-shaped
// webhook payloads send bare numbers. Either way UUID() yields the model
// id used in the local unique key.
type RemoteID string

func (r *RemoteID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RemoteID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = RemoteID(n.String())
	return nil
}

// UUID strips the gid prefix, if any.
func (r RemoteID) UUID() string {
	s := string(r)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// RemoteProduct is one product node as fetched from the Admin API,
// including its first page of nested variants.
type RemoteProduct struct {
	ID       RemoteID
	Title    string
	Status   string
	ImageURL string
	Variants []RemoteVariant
}

// RemoteVariant is one variant node nested under a remote product.
type RemoteVariant struct {
	ID    RemoteID
	Title string
}

// RemoteCollection is one collection node as fetched from the Admin API.
type RemoteCollection struct {
	ID    RemoteID
	Title string
}

// ProductImport is the reconciler's upsert row for a product. Only these
// fields are ever written on conflict; local markers such as
// discarded_at stay untouched.
type ProductImport struct {
	ShopifyUUID string
	Title       string
	Status      ProductStatus
	ImageURL    string
}

// VariantImport is the reconciler's upsert row for a variant. Title is
// the only field updated on conflict.
type VariantImport struct {
	ShopifyUUID string
	Title       string
}

// CollectionImport is the reconciler's upsert row for a collection.
type CollectionImport struct {
	ShopifyUUID string
	Title       string
}
