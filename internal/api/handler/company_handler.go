package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// CompanyHandler handles the public directory and seller-owned writes.
type CompanyHandler struct {
	service ports.CompanyService
}

func NewCompanyHandler(service ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// --- Request / Response types ---

type companyRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Sector      string `json:"sector"      validate:"required"`
	Country     string `json:"country"     validate:"required"`
	City        string `json:"city"`
	Website     string `json:"website"`
	Email       string `json:"email"       validate:"required,email"`
	Phone       string `json:"phone"`
}

type companyListResponse struct {
	Companies []*domain.Company `json:"companies"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	Limit     int               `json:"limit"`
}

// pageParams reads page/limit query params; zero values let the service apply
// its defaults and cap.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	return page, limit
}

func (r companyRequest) toInput() ports.CompanyInput {
	return ports.CompanyInput{
		Name:        r.Name,
		Description: r.Description,
		Sector:      r.Sector,
		Country:     r.Country,
		City:        r.City,
		Website:     r.Website,
		Email:       r.Email,
		Phone:       r.Phone,
	}
}

// Create registers the caller's company profile.
//
// @Summary      Create a company profile
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companyRequest  true  "Company details"
// @Success      201   {object}  domain.Company
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/companies [post]
func (h *CompanyHandler) Create(c echo.Context) error {
	ownerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	company, err := h.service.Create(c.Request().Context(), ownerID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, company)
}

// Update replaces the caller's company profile fields.
//
// @Summary      Update a company profile
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Company ID"
// @Param        body  body      companyRequest  true  "Company details"
// @Success      200   {object}  domain.Company
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/companies/{id} [patch]
func (h *CompanyHandler) Update(c echo.Context) error {
	ownerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	company, err := h.service.Update(c.Request().Context(), ownerID, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// Get returns a single company profile.
//
// @Summary      Get a company by ID
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  domain.Company
// @Failure      404  {object}  errorResponse
// @Router       /v1/companies/{id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	company, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// List browses the public directory with optional filters.
//
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Param        sector   query     string  false  "Filter by sector"
// @Param        country  query     string  false  "Filter by country"
// @Param        search   query     string  false  "Partial name match"
// @Param        page     query     int     false  "Page (1-based)"
// @Param        limit    query     int     false  "Page size"
// @Success      200      {object}  companyListResponse
// @Router       /v1/companies [get]
func (h *CompanyHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	filter := ports.ListCompaniesFilter{
		Sector:  c.QueryParam("sector"),
		Country: c.QueryParam("country"),
		Search:  c.QueryParam("search"),
		Page:    page,
		Limit:   limit,
	}

	companies, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companyListResponse{
		Companies: companies,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
}
