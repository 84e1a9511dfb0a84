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

type stubProductRepo struct {
	products map[string]*domain.Product
	nextID   int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.nextID++
	clone := *p
	clone.ID = "pr-" + strconv.Itoa(r.nextID)
	r.products[clone.ID] = &clone
	copy := clone
	return &copy, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if _, ok := r.products[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	r.products[p.ID] = &clone
	copy := clone
	return &copy, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) List(_ context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if filter.CompanyID != "" && p.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func productTestFixture(t *testing.T) (ports.ProductService, *stubProductRepo) {
	t.Helper()
	identities := newStubIdentityRepo()
	seedIdentity(identities, "owner", domain.RoleSeller, true, domain.ProfileApproved, domain.MembershipActive)
	seedIdentity(identities, "other", domain.RoleSeller, true, domain.ProfileApproved, domain.MembershipActive)
	seedIdentity(identities, "nomember", domain.RoleSeller, true, domain.ProfileApproved, domain.MembershipInactive)

	companies := newStubCompanyRepo()
	companies.companies["co-1"] = &domain.Company{ID: "co-1", OwnerID: "owner", Name: "Acme"}
	companies.companies["co-2"] = &domain.Company{ID: "co-2", OwnerID: "other", Name: "Globex"}

	products := newStubProductRepo()
	return NewProductService(products, companies, identities, zerolog.Nop()), products
}

func listingInput() ports.ProductInput {
	return ports.ProductInput{
		Name:     "Organic Cotton Yarn",
		Category: "textiles",
		Price:    4.5,
		Currency: "USD",
		Unit:     "kg",
	}
}

func TestProductService_Create(t *testing.T) {
	svc, _ := productTestFixture(t)

	product, err := svc.Create(context.Background(), "owner", listingInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.CompanyID != "co-1" {
		t.Fatalf("listing must attach to the owner's company, got %q", product.CompanyID)
	}
	if product.OwnerID != "owner" {
		t.Fatalf("owner not recorded: %q", product.OwnerID)
	}

	if _, err := svc.Create(context.Background(), "nomember", listingInput()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden without membership, got %v", err)
	}
}

func TestProductService_UpdateAndDelete_OwnerScoped(t *testing.T) {
	svc, _ := productTestFixture(t)

	product, err := svc.Create(context.Background(), "owner", listingInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(context.Background(), "other", product.ID, listingInput()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner update, got %v", err)
	}
	if err := svc.Delete(context.Background(), "other", product.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner delete, got %v", err)
	}

	in := listingInput()
	in.Price = 5.25
	updated, err := svc.Update(context.Background(), "owner", product.ID, in)
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Price != 5.25 {
		t.Fatalf("price not updated: %v", updated.Price)
	}

	if err := svc.Delete(context.Background(), "owner", product.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), product.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
}

func TestProductService_List_FiltersByCompany(t *testing.T) {
	svc, _ := productTestFixture(t)

	if _, err := svc.Create(context.Background(), "owner", listingInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), "other", listingInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	products, total, err := svc.List(context.Background(), ports.ListProductsFilter{CompanyID: "co-1"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("expected 1 listing for co-1, got %d", total)
	}
	if products[0].CompanyID != "co-1" {
		t.Fatalf("wrong company in results: %q", products[0].CompanyID)
	}
}
