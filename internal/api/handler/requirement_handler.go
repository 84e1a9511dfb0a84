package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/b2blink/marketplace-api/internal/api/metrics"
	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// RequirementHandler handles buyer sourcing requirements.
type RequirementHandler struct {
	service ports.RequirementService
}

func NewRequirementHandler(service ports.RequirementService) *RequirementHandler {
	return &RequirementHandler{service: service}
}

// --- Request / Response types ---

type requirementRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category"    validate:"required"`
	Quantity    string `json:"quantity"`
	Country     string `json:"country"`
}

type requirementListResponse struct {
	Requirements []*domain.Requirement `json:"requirements"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

// Post publishes a sourcing requirement. Buyers only.
//
// @Summary      Post a sourcing requirement
// @Tags         requirements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      requirementRequest  true  "Requirement details"
// @Success      201   {object}  domain.Requirement
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/requirements [post]
func (h *RequirementHandler) Post(c echo.Context) error {
	buyerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req requirementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requirement, err := h.service.Post(c.Request().Context(), buyerID, ports.RequirementInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Country:     req.Country,
	})
	if err != nil {
		return err
	}

	metrics.RequirementsPostedTotal.Inc()
	return c.JSON(http.StatusCreated, requirement)
}

// List browses posted requirements with optional filters.
//
// @Summary      List sourcing requirements
// @Tags         requirements
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Param        country   query     string  false  "Filter by country"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  requirementListResponse
// @Router       /v1/requirements [get]
func (h *RequirementHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	filter := ports.ListRequirementsFilter{
		Category: c.QueryParam("category"),
		Country:  c.QueryParam("country"),
		Page:     page,
		Limit:    limit,
	}

	requirements, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requirementListResponse{
		Requirements: requirements,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
	})
}
