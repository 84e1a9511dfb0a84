package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

const maxListLimit = 100

type companyService struct {
	companies  ports.CompanyRepository
	identities ports.IdentityRepository
	log        zerolog.Logger
}

// NewCompanyService returns a CompanyService implementation.
func NewCompanyService(companies ports.CompanyRepository, identities ports.IdentityRepository, log zerolog.Logger) ports.CompanyService {
	return &companyService{companies: companies, identities: identities, log: log}
}

// Create registers the owner's company profile. One per account; only
// approved sellers with active membership may create one.
func (s *companyService) Create(ctx context.Context, ownerID string, in ports.CompanyInput) (*domain.Company, error) {
	if err := s.requireMember(ctx, ownerID); err != nil {
		return nil, err
	}

	if _, err := s.companies.FindByOwner(ctx, ownerID); err == nil {
		return nil, domain.ErrCompanyExists
	} else if err != domain.ErrCompanyNotFound {
		return nil, err
	}

	now := time.Now().UTC()
	company := &domain.Company{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Sector:      in.Sector,
		Country:     in.Country,
		City:        in.City,
		Website:     in.Website,
		Email:       in.Email,
		Phone:       in.Phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.companies.Create(ctx, company)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("company_id", created.ID).Str("owner_id", ownerID).Msg("company profile created")
	return created, nil
}

// Update replaces the company's editable fields. Owner-only.
func (s *companyService) Update(ctx context.Context, ownerID, companyID string, in ports.CompanyInput) (*domain.Company, error) {
	if err := s.requireMember(ctx, ownerID); err != nil {
		return nil, err
	}

	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	company.Name = strings.TrimSpace(in.Name)
	company.Description = in.Description
	company.Sector = in.Sector
	company.Country = in.Country
	company.City = in.City
	company.Website = in.Website
	company.Email = in.Email
	company.Phone = in.Phone
	company.UpdatedAt = time.Now().UTC()

	return s.companies.Update(ctx, company)
}

func (s *companyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	return s.companies.FindByID(ctx, id)
}

func (s *companyService) GetByOwner(ctx context.Context, ownerID string) (*domain.Company, error) {
	return s.companies.FindByOwner(ctx, ownerID)
}

func (s *companyService) List(ctx context.Context, filter ports.ListCompaniesFilter) ([]*domain.Company, int64, error) {
	normalizePage(&filter.Page, &filter.Limit)
	return s.companies.List(ctx, filter)
}

func (s *companyService) requireMember(ctx context.Context, ownerID string) error {
	identity, err := s.identities.FindByID(ctx, ownerID)
	if err != nil {
		return err
	}
	if !identity.Verified {
		return domain.ErrNotVerified
	}
	if !identity.IsMember() {
		return domain.ErrForbidden
	}
	return nil
}

// normalizePage applies the 1-based page default and caps the limit.
func normalizePage(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = 20
	}
	if *limit > maxListLimit {
		*limit = maxListLimit
	}
}
