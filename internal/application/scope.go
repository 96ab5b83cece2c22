package application

import (
	"context"
	"fmt"

	"soundfy-core-shopify-layer/internal/domain"
	"soundfy-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ScopeKind discriminates the shapes a job's first argument can take.
type ScopeKind int

const (
	// ScopeNone leaves the context untouched.
	ScopeNone ScopeKind = iota
	// ScopeShopID references the shop by its local id.
	ScopeShopID
	// ScopeShopDomain references the shop by its Shopify domain.
	ScopeShopDomain
)

// JobScope is the tagged tenant reference carried by job arguments.
type JobScope struct {
	Kind       ScopeKind
	ShopID     string
	ShopDomain string
}

// ScopeForShopID scopes a job to a shop by local id.
func ScopeForShopID(id string) JobScope {
	return JobScope{Kind: ScopeShopID, ShopID: id}
}

// ScopeForDomain scopes a job to a shop by Shopify domain.
func ScopeForDomain(shopDomain string) JobScope {
	return JobScope{Kind: ScopeShopDomain, ShopDomain: shopDomain}
}

// NoScope marks a job that runs without a tenant.
func NoScope() JobScope {
	return JobScope{Kind: ScopeNone}
}

// ShopScope resolves a JobScope to a shop and binds it to the context
// for the duration of one job execution. The binding dies with the
// context, so worker goroutines never leak tenant identity across jobs.
type ShopScope struct {
	shops  ports.ShopRepository
	logger zerolog.Logger
}

// NewShopScope creates the scope resolver.
func NewShopScope(shops ports.ShopRepository, logger zerolog.Logger) *ShopScope {
	return &ShopScope{shops: shops, logger: logger}
}

// Within runs fn with the resolved shop bound to ctx. An unknown shop
// domain fails with domain.ErrShopNotFound after logging: a domain
// mismatch is not transient, so the job is discarded rather than
// retried.
func (s *ShopScope) Within(ctx context.Context, scope JobScope, fn func(ctx context.Context) error) error {
	switch scope.Kind {
	case ScopeNone:
		return fn(ctx)

	case ScopeShopID:
		shop, err := s.shops.GetByID(ctx, scope.ShopID)
		if err != nil {
			return fmt.Errorf("failed to resolve shop %s: %w", scope.ShopID, err)
		}
		if shop == nil {
			s.logger.Error().Str("shop_id", scope.ShopID).Msg("Job failed: cannot find shop")
			return fmt.Errorf("shop id %q: %w", scope.ShopID, domain.ErrShopNotFound)
		}
		return fn(domain.WithShop(ctx, shop))

	case ScopeShopDomain:
		shop, err := s.shops.GetByDomain(ctx, scope.ShopDomain)
		if err != nil {
			return fmt.Errorf("failed to resolve shop %s: %w", scope.ShopDomain, err)
		}
		if shop == nil {
			s.logger.Error().Str("shop_domain", scope.ShopDomain).Msg("Job failed: cannot find shop")
			return fmt.Errorf("shop domain %q: %w", scope.ShopDomain, domain.ErrShopNotFound)
		}
		return fn(domain.WithShop(ctx, shop))

	default:
		return fmt.Errorf("unknown job scope kind %d", scope.Kind)
	}
}
