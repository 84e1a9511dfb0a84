package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// MeHandler serves the authenticated identity's own record.
type MeHandler struct {
	identity ports.IdentityService
}

func NewMeHandler(identity ports.IdentityService) *MeHandler {
	return &MeHandler{identity: identity}
}

// Get returns the current identity.
//
// @Summary      Get own profile
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/me [get]
func (h *MeHandler) Get(c echo.Context) error {
	id, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	identity, err := h.identity.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// Update applies a partial profile update. Absent fields are left unchanged;
// role, statuses, and email are not editable here.
//
// @Summary      Update own profile
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Identity
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/me [patch]
func (h *MeHandler) Update(c echo.Context) error {
	id, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	identity, err := h.identity.UpdateProfile(c.Request().Context(), id, ports.ProfileUpdateInput{
		Prefix:            req.Prefix,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Mobile:            req.Mobile,
		Designation:       req.Designation,
		Country:           req.Country,
		SectorsOfInterest: req.SectorsOfInterest,
		FunctionalAreas:   req.FunctionalAreas,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}
