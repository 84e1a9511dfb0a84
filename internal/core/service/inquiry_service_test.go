package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

type stubInquiryRepo struct {
	inquiries map[string]*domain.Inquiry
	nextID    int
}

func newStubInquiryRepo() *stubInquiryRepo {
	return &stubInquiryRepo{inquiries: make(map[string]*domain.Inquiry)}
}

func (r *stubInquiryRepo) Create(_ context.Context, i *domain.Inquiry) (*domain.Inquiry, error) {
	r.nextID++
	clone := *i
	clone.ID = "in-" + strconv.Itoa(r.nextID)
	r.inquiries[clone.ID] = &clone
	copy := clone
	return &copy, nil
}

func (r *stubInquiryRepo) ListByCompany(_ context.Context, filter ports.ListInquiriesFilter) ([]*domain.Inquiry, int64, error) {
	var out []*domain.Inquiry
	for _, i := range r.inquiries {
		if i.CompanyID != filter.CompanyID {
			continue
		}
		clone := *i
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func inquiryTestFixture() (ports.InquiryService, *stubCompanyRepo) {
	identities := newStubIdentityRepo()
	seedIdentity(identities, "buyer", domain.RoleBuyer, true, domain.ProfileApproved, domain.MembershipInactive)
	seedIdentity(identities, "unverified", domain.RoleBuyer, false, domain.ProfilePending, domain.MembershipInactive)
	seedIdentity(identities, "owner", domain.RoleSeller, true, domain.ProfileApproved, domain.MembershipActive)

	companies := newStubCompanyRepo()
	companies.companies["co-1"] = &domain.Company{ID: "co-1", OwnerID: "owner", Name: "Acme"}

	return NewInquiryService(newStubInquiryRepo(), companies, identities, zerolog.Nop()), companies
}

func TestInquiryService_Send(t *testing.T) {
	svc, _ := inquiryTestFixture()

	in := ports.InquiryInput{CompanyID: "co-1", Subject: " Pricing ", Message: "What is your MOQ?"}

	inquiry, err := svc.Send(context.Background(), "buyer", in)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if inquiry.Subject != "Pricing" {
		t.Fatalf("subject must be trimmed, got %q", inquiry.Subject)
	}
	if inquiry.FromID != "buyer" {
		t.Fatalf("sender not recorded: %q", inquiry.FromID)
	}

	if _, err := svc.Send(context.Background(), "unverified", in); !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}

	in.CompanyID = "co-missing"
	if _, err := svc.Send(context.Background(), "buyer", in); !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestInquiryService_ListReceived(t *testing.T) {
	svc, _ := inquiryTestFixture()

	if _, err := svc.Send(context.Background(), "buyer", ports.InquiryInput{CompanyID: "co-1", Subject: "s", Message: "m"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	inquiries, total, err := svc.ListReceived(context.Background(), "owner", 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(inquiries) != 1 {
		t.Fatalf("expected 1 inquiry, got %d", total)
	}

	if _, _, err := svc.ListReceived(context.Background(), "buyer", 1, 20); !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Fatalf("accounts without a company have no inbox, got %v", err)
	}
}
