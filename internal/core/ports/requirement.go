package ports

import (
	"context"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

// RequirementInput carries the fields a buyer submits when posting a
// sourcing requirement.
type RequirementInput struct {
	Title       string
	Description string
	Category    string
	Quantity    string
	Country     string
}

// ListRequirementsFilter carries query parameters for browsing requirements.
type ListRequirementsFilter struct {
	Category string // optional: filter by category
	Country  string // optional: filter by country
	Page     int    // 1-based
	Limit    int    // capped by the service
}

// RequirementRepository defines persistence operations for requirements.
type RequirementRepository interface {
	Create(ctx context.Context, r *domain.Requirement) (*domain.Requirement, error)
	FindByID(ctx context.Context, id string) (*domain.Requirement, error)
	List(ctx context.Context, filter ListRequirementsFilter) ([]*domain.Requirement, int64, error)
}

// RequirementService exposes requirement posting and browsing.
type RequirementService interface {
	Post(ctx context.Context, buyerID string, in RequirementInput) (*domain.Requirement, error)
	Get(ctx context.Context, id string) (*domain.Requirement, error)
	List(ctx context.Context, filter ListRequirementsFilter) ([]*domain.Requirement, int64, error)
}
