package ports

import (
	"context"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

// ProductInput carries the fields for creating or updating a product listing.
type ProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Currency    string
	Unit        string
}

// ListProductsFilter carries query parameters for browsing listings.
type ListProductsFilter struct {
	CompanyID string // optional: listings of a single company
	Category  string // optional: filter by category
	Search    string // optional: partial match on name
	Page      int    // 1-based
	Limit     int    // capped by the service
}

// ProductRepository defines persistence operations for product listings.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
}

// ProductService exposes product listing operations. Writes are scoped to the
// owner of the company the product belongs to.
type ProductService interface {
	Create(ctx context.Context, ownerID string, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, ownerID, productID string, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, ownerID, productID string) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
}
