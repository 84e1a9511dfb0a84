package ports

import (
	"context"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

// IdentityRepository defines the interface for identity persistence.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	SetVerified(ctx context.Context, id string, verified bool) error
	SetProfileStatus(ctx context.Context, id string, status domain.ProfileStatus) error
	SetMembershipStatus(ctx context.Context, id string, status domain.MembershipStatus) error
}
