package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRoles enforces role-based access control on top of Auth.
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireVerified blocks identities that have not confirmed their email.
// Protected actions are usable only after a successful OTP redemption.
func RequireVerified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			verified, _ := c.Get("verified").(bool)
			if !verified {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "email not verified"})
			}
			return next(c)
		}
	}
}

// RequireMember admits only approved sellers with active membership. These
// are the accounts with write access to companies and products; the service
// layer re-checks against the live record in case the token is stale.
func RequireMember() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			profile, _ := c.Get("profile_status").(string)
			membership, _ := c.Get("membership_status").(string)
			if role != "seller" || profile != "approved" || membership != "active" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "membership required"})
			}
			return next(c)
		}
	}
}
