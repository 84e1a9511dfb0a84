package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

type stubCompanyRepo struct {
	companies map[string]*domain.Company
	nextID    int
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{companies: make(map[string]*domain.Company)}
}

func (r *stubCompanyRepo) Create(_ context.Context, c *domain.Company) (*domain.Company, error) {
	r.nextID++
	clone := *c
	clone.ID = "co-" + strconv.Itoa(r.nextID)
	r.companies[clone.ID] = &clone
	copy := clone
	return &copy, nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id string) (*domain.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCompanyRepo) FindByOwner(_ context.Context, ownerID string) (*domain.Company, error) {
	for _, c := range r.companies {
		if c.OwnerID == ownerID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCompanyRepo) Update(_ context.Context, c *domain.Company) (*domain.Company, error) {
	if _, ok := r.companies[c.ID]; !ok {
		return nil, domain.ErrCompanyNotFound
	}
	clone := *c
	r.companies[c.ID] = &clone
	copy := clone
	return &copy, nil
}

func (r *stubCompanyRepo) List(_ context.Context, filter ports.ListCompaniesFilter) ([]*domain.Company, int64, error) {
	var out []*domain.Company
	for _, c := range r.companies {
		if filter.Sector != "" && c.Sector != filter.Sector {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

// seedIdentity inserts an identity directly into the stub repo.
func seedIdentity(repo *stubIdentityRepo, id string, role domain.Role, verified bool, profile domain.ProfileStatus, membership domain.MembershipStatus) {
	repo.identities[id] = &domain.Identity{
		ID:               id,
		Email:            id + "@example.com",
		Role:             role,
		ProfileStatus:    profile,
		MembershipStatus: membership,
		Verified:         verified,
	}
}

func memberCompanyInput() ports.CompanyInput {
	return ports.CompanyInput{
		Name:    "  Acme Textiles  ",
		Sector:  "textiles",
		Country: "IN",
		Email:   "contact@acme.example.com",
	}
}

func TestCompanyService_Create_RequiresMembership(t *testing.T) {
	identities := newStubIdentityRepo()
	svc := NewCompanyService(newStubCompanyRepo(), identities, zerolog.Nop())

	seedIdentity(identities, "unverified", domain.RoleSeller, false, domain.ProfileApproved, domain.MembershipActive)
	if _, err := svc.Create(context.Background(), "unverified", memberCompanyInput()); !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}

	seedIdentity(identities, "pending", domain.RoleSeller, true, domain.ProfilePending, domain.MembershipActive)
	if _, err := svc.Create(context.Background(), "pending", memberCompanyInput()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for pending seller, got %v", err)
	}

	seedIdentity(identities, "nomember", domain.RoleSeller, true, domain.ProfileApproved, domain.MembershipInactive)
	if _, err := svc.Create(context.Background(), "nomember", memberCompanyInput()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden without membership, got %v", err)
	}

	seedIdentity(identities, "buyer", domain.RoleBuyer, true, domain.ProfileApproved, domain.MembershipActive)
	if _, err := svc.Create(context.Background(), "buyer", memberCompanyInput()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for buyers, got %v", err)
	}
}

func TestCompanyService_Create_OnePerOwner(t *testing.T) {
	identities := newStubIdentityRepo()
	seedIdentity(identities, "owner", domain.RoleSeller, true, domain.ProfileApproved, domain.MembershipActive)
	svc := NewCompanyService(newStubCompanyRepo(), identities, zerolog.Nop())

	created, err := svc.Create(context.Background(), "owner", memberCompanyInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != "Acme Textiles" {
		t.Fatalf("name must be trimmed, got %q", created.Name)
	}

	if _, err := svc.Create(context.Background(), "owner", memberCompanyInput()); !errors.Is(err, domain.ErrCompanyExists) {
		t.Fatalf("expected ErrCompanyExists, got %v", err)
	}
}

func TestCompanyService_Update_OwnerOnly(t *testing.T) {
	identities := newStubIdentityRepo()
	seedIdentity(identities, "owner", domain.RoleSeller, true, domain.ProfileApproved, domain.MembershipActive)
	seedIdentity(identities, "other", domain.RoleSeller, true, domain.ProfileApproved, domain.MembershipActive)
	svc := NewCompanyService(newStubCompanyRepo(), identities, zerolog.Nop())

	created, err := svc.Create(context.Background(), "owner", memberCompanyInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(context.Background(), "other", created.ID, memberCompanyInput()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	in := memberCompanyInput()
	in.City = "Mumbai"
	updated, err := svc.Update(context.Background(), "owner", created.ID, in)
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.City != "Mumbai" {
		t.Fatalf("update not applied: %q", updated.City)
	}
}

func TestCompanyService_List_NormalizesPaging(t *testing.T) {
	identities := newStubIdentityRepo()
	companies := newStubCompanyRepo()
	svc := NewCompanyService(companies, identities, zerolog.Nop())

	_, _, err := svc.List(context.Background(), ports.ListCompaniesFilter{Page: -3, Limit: 10_000})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	page, limit := -3, 10_000
	normalizePage(&page, &limit)
	if page != 1 {
		t.Fatalf("page must default to 1, got %d", page)
	}
	if limit != maxListLimit {
		t.Fatalf("limit must be capped at %d, got %d", maxListLimit, limit)
	}
}
