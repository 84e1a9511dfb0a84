package ports

import (
	"context"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

// InquiryInput carries the fields for sending an inquiry to a company.
type InquiryInput struct {
	CompanyID string
	ProductID string // optional: inquiry about a specific listing
	Subject   string
	Message   string
}

// ListInquiriesFilter pages through inquiries received by a company.
type ListInquiriesFilter struct {
	CompanyID string
	Page      int // 1-based
	Limit     int // capped by the service
}

// InquiryRepository defines persistence operations for inquiries.
type InquiryRepository interface {
	Create(ctx context.Context, i *domain.Inquiry) (*domain.Inquiry, error)
	ListByCompany(ctx context.Context, filter ListInquiriesFilter) ([]*domain.Inquiry, int64, error)
}

// InquiryService exposes inquiry exchange. Sending requires a verified
// account; listing is restricted to the owner of the receiving company.
type InquiryService interface {
	Send(ctx context.Context, fromID string, in InquiryInput) (*domain.Inquiry, error)
	ListReceived(ctx context.Context, ownerID string, page, limit int) ([]*domain.Inquiry, int64, error)
}
