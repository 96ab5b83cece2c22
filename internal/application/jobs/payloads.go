// Package jobs holds the background job handlers: one entry point per
// webhook topic plus the full-resync jobs. Deliveries are at-least-once
// and unordered, so every handler is idempotent and treats an already
// discarded record as success.
package jobs

import (
	"soundfy-core-shopify-layer/internal/domain"
)

type imageRef struct {
	Src string `json:"src"`
}

// productPayload is the body of a products/* webhook.
type productPayload struct {
	ID       domain.RemoteID  `json:"id"`
	Title    string           `json:"title"`
	Status   string           `json:"status"`
	Image    *imageRef        `json:"image"`
	Images   []imageRef       `json:"images"`
	Variants []variantPayload `json:"variants"`
}

// imageURL prefers the featured image and falls back to the first one.
func (p *productPayload) imageURL() string {
	if p.Image != nil && p.Image.Src != "" {
		return p.Image.Src
	}
	if len(p.Images) > 0 {
		return p.Images[0].Src
	}
	return ""
}

func (p *productPayload) variantImports() []domain.VariantImport {
	rows := make([]domain.VariantImport, 0, len(p.Variants))
	for _, v := range p.Variants {
		rows = append(rows, domain.VariantImport{
			ShopifyUUID: v.ID.UUID(),
			Title:       v.Title,
		})
	}
	return rows
}

type variantPayload struct {
	ID    domain.RemoteID `json:"id"`
	Title string          `json:"title"`
}

// collectionPayload is the body of a collections/* webhook.
type collectionPayload struct {
	ID    domain.RemoteID `json:"id"`
	Title string          `json:"title"`
}
