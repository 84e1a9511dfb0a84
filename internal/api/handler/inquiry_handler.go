package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/b2blink/marketplace-api/internal/api/metrics"
	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// InquiryHandler handles inquiries between accounts and companies.
type InquiryHandler struct {
	service ports.InquiryService
}

func NewInquiryHandler(service ports.InquiryService) *InquiryHandler {
	return &InquiryHandler{service: service}
}

// --- Request / Response types ---

type inquiryRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
	ProductID string `json:"product_id"`
	Subject   string `json:"subject"    validate:"required"`
	Message   string `json:"message"    validate:"required"`
}

type inquiryListResponse struct {
	Inquiries []*domain.Inquiry `json:"inquiries"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	Limit     int               `json:"limit"`
}

// Send delivers an inquiry to a company. Requires a verified account.
//
// @Summary      Send an inquiry
// @Tags         inquiries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      inquiryRequest  true  "Inquiry details"
// @Success      201   {object}  domain.Inquiry
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/inquiries [post]
func (h *InquiryHandler) Send(c echo.Context) error {
	fromID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req inquiryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inquiry, err := h.service.Send(c.Request().Context(), fromID, ports.InquiryInput{
		CompanyID: req.CompanyID,
		ProductID: req.ProductID,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}

	metrics.InquiriesSentTotal.Inc()
	return c.JSON(http.StatusCreated, inquiry)
}

// ListReceived pages through inquiries sent to the caller's company.
//
// @Summary      List inquiries received by the caller's company
// @Tags         inquiries
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  inquiryListResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/inquiries [get]
func (h *InquiryHandler) ListReceived(c echo.Context) error {
	ownerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	inquiries, total, err := h.service.ListReceived(c.Request().Context(), ownerID, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inquiryListResponse{
		Inquiries: inquiries,
		Total:     total,
		Page:      page,
		Limit:     limit,
	})
}
