package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity claims injected by the Auth middleware
// and performs a fast-fail check before any service call: the subject must be
// non-empty (presence proves the middleware ran and the token carried an
// identity).
func ctxIdentity(c echo.Context) (id, role string, err error) {
	id, _ = c.Get("identity_id").(string)
	if id == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get("role").(string)
	return id, role, nil
}
