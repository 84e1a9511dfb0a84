package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

type inquiryService struct {
	inquiries  ports.InquiryRepository
	companies  ports.CompanyRepository
	identities ports.IdentityRepository
	log        zerolog.Logger
}

// NewInquiryService returns an InquiryService implementation.
func NewInquiryService(inquiries ports.InquiryRepository, companies ports.CompanyRepository, identities ports.IdentityRepository, log zerolog.Logger) ports.InquiryService {
	return &inquiryService{inquiries: inquiries, companies: companies, identities: identities, log: log}
}

// Send delivers an inquiry to a company. Any verified account may send;
// the target company must exist.
func (s *inquiryService) Send(ctx context.Context, fromID string, in ports.InquiryInput) (*domain.Inquiry, error) {
	identity, err := s.identities.FindByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if !identity.Verified {
		return nil, domain.ErrNotVerified
	}

	if _, err := s.companies.FindByID(ctx, in.CompanyID); err != nil {
		return nil, err
	}

	inquiry := &domain.Inquiry{
		FromID:    fromID,
		CompanyID: in.CompanyID,
		ProductID: in.ProductID,
		Subject:   strings.TrimSpace(in.Subject),
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.inquiries.Create(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("inquiry_id", created.ID).Str("company_id", in.CompanyID).Msg("inquiry sent")
	return created, nil
}

// ListReceived pages through the inquiries addressed to the owner's company.
func (s *inquiryService) ListReceived(ctx context.Context, ownerID string, page, limit int) ([]*domain.Inquiry, int64, error) {
	company, err := s.companies.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}

	normalizePage(&page, &limit)
	return s.inquiries.ListByCompany(ctx, ports.ListInquiriesFilter{CompanyID: company.ID, Page: page, Limit: limit})
}
