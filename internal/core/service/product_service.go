package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

type productService struct {
	products   ports.ProductRepository
	companies  ports.CompanyRepository
	identities ports.IdentityRepository
	log        zerolog.Logger
}

// NewProductService returns a ProductService implementation.
func NewProductService(products ports.ProductRepository, companies ports.CompanyRepository, identities ports.IdentityRepository, log zerolog.Logger) ports.ProductService {
	return &productService{products: products, companies: companies, identities: identities, log: log}
}

// Create adds a listing under the owner's company. The owner must be an
// approved seller with active membership and an existing company profile.
func (s *productService) Create(ctx context.Context, ownerID string, in ports.ProductInput) (*domain.Product, error) {
	if err := s.requireMember(ctx, ownerID); err != nil {
		return nil, err
	}

	company, err := s.companies.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		CompanyID:   company.ID,
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Currency:    in.Currency,
		Unit:        in.Unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("product_id", created.ID).Str("company_id", company.ID).Msg("product listed")
	return created, nil
}

// Update replaces a listing's editable fields. Owner-only.
func (s *productService) Update(ctx context.Context, ownerID, productID string, in ports.ProductInput) (*domain.Product, error) {
	if err := s.requireMember(ctx, ownerID); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Category = in.Category
	product.Price = in.Price
	product.Currency = in.Currency
	product.Unit = in.Unit
	product.UpdatedAt = time.Now().UTC()

	return s.products.Update(ctx, product)
}

// Delete removes a listing. Owner-only.
func (s *productService) Delete(ctx context.Context, ownerID, productID string) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	return s.products.Delete(ctx, productID)
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *productService) List(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	normalizePage(&filter.Page, &filter.Limit)
	return s.products.List(ctx, filter)
}

func (s *productService) requireMember(ctx context.Context, ownerID string) error {
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
