package ports

import (
	"context"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

// RegisterInput carries the full profile form captured by the registration
// wizard. Fields are presence-validated at the transport layer; the service
// re-checks only what it must not trust the client with.
type RegisterInput struct {
	Role              domain.Role
	Prefix            string
	FirstName         string
	LastName          string
	Email             string
	Mobile            string
	Password          string
	Designation       string
	Country           string
	SectorsOfInterest []string
	FunctionalAreas   []string
}

// ProfileUpdateInput carries the mutable profile fields for PATCH /me.
// Nil pointers mean "leave unchanged".
type ProfileUpdateInput struct {
	Prefix            *string
	FirstName         *string
	LastName          *string
	Mobile            *string
	Designation       *string
	Country           *string
	SectorsOfInterest []string
	FunctionalAreas   []string
}

// AuthResult pairs a signed session token with the identity it authenticates.
type AuthResult struct {
	Token    string
	Identity *domain.Identity
}

// IdentityService is the identity backend consumed by the session store and
// the registration flow.
type IdentityService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	RequestOTP(ctx context.Context, email string) (string, error)
	RedeemOTP(ctx context.Context, otpID, code string) (*AuthResult, error)
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdateInput) (*domain.Identity, error)
	Approve(ctx context.Context, id string) error
	SetMembership(ctx context.Context, id string, status domain.MembershipStatus) error
}
