package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

type requirementService struct {
	requirements ports.RequirementRepository
	identities   ports.IdentityRepository
	log          zerolog.Logger
}

// NewRequirementService returns a RequirementService implementation.
func NewRequirementService(requirements ports.RequirementRepository, identities ports.IdentityRepository, log zerolog.Logger) ports.RequirementService {
	return &requirementService{requirements: requirements, identities: identities, log: log}
}

// Post publishes a sourcing requirement. Any verified buyer may post.
func (s *requirementService) Post(ctx context.Context, buyerID string, in ports.RequirementInput) (*domain.Requirement, error) {
	identity, err := s.identities.FindByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if !identity.Verified {
		return nil, domain.ErrNotVerified
	}
	if identity.Role != domain.RoleBuyer {
		return nil, domain.ErrForbidden
	}

	requirement := &domain.Requirement{
		BuyerID:     buyerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Country:     in.Country,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.requirements.Create(ctx, requirement)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("requirement_id", created.ID).Str("buyer_id", buyerID).Msg("requirement posted")
	return created, nil
}

func (s *requirementService) Get(ctx context.Context, id string) (*domain.Requirement, error) {
	return s.requirements.FindByID(ctx, id)
}

func (s *requirementService) List(ctx context.Context, filter ports.ListRequirementsFilter) ([]*domain.Requirement, int64, error) {
	normalizePage(&filter.Page, &filter.Limit)
	return s.requirements.List(ctx, filter)
}
