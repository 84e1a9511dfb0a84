package ports

import (
	"context"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

// CompanyInput carries the fields a seller submits when creating or updating
// their company profile.
type CompanyInput struct {
	Name        string
	Description string
	Sector      string
	Country     string
	City        string
	Website     string
	Email       string
	Phone       string
}

// ListCompaniesFilter carries query parameters for the public directory.
type ListCompaniesFilter struct {
	Sector  string // optional: filter by sector
	Country string // optional: filter by country
	Search  string // optional: partial match on name
	Page    int    // 1-based
	Limit   int    // capped by the service
}

// CompanyRepository defines persistence operations for company profiles.
type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) (*domain.Company, error)
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	FindByOwner(ctx context.Context, ownerID string) (*domain.Company, error)
	Update(ctx context.Context, c *domain.Company) (*domain.Company, error)
	List(ctx context.Context, filter ListCompaniesFilter) ([]*domain.Company, int64, error)
}

// CompanyService exposes company profile operations. Writes require an
// approved seller with active membership; the service re-checks ownership.
type CompanyService interface {
	Create(ctx context.Context, ownerID string, in CompanyInput) (*domain.Company, error)
	Update(ctx context.Context, ownerID, companyID string, in CompanyInput) (*domain.Company, error)
	Get(ctx context.Context, id string) (*domain.Company, error)
	GetByOwner(ctx context.Context, ownerID string) (*domain.Company, error)
	List(ctx context.Context, filter ListCompaniesFilter) ([]*domain.Company, int64, error)
}
