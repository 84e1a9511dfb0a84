package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/b2blink/marketplace-api/internal/core/ports"
	"github.com/b2blink/marketplace-api/internal/core/service"
)

// DashboardHandler is the role-routed dashboard entry point. It resolves the
// identity's home destination from the live record (not the token, which may
// carry stale statuses) and answers with a single redirect.
type DashboardHandler struct {
	identity ports.IdentityService
}

func NewDashboardHandler(identity ports.IdentityService) *DashboardHandler {
	return &DashboardHandler{identity: identity}
}

// Resolve issues one 302 to the identity's destination: the pending page
// while under review or rejected, otherwise the role's dashboard.
//
// @Summary      Resolve the dashboard destination for the current identity
// @Tags         dashboard
// @Security     BearerAuth
// @Success      302
// @Failure      401  {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Resolve(c echo.Context) error {
	id, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	identity, err := h.identity.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	dest := service.DestinationFor(identity)
	return c.Redirect(http.StatusFound, string(dest))
}
