package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/b2blink/marketplace-api/internal/api/metrics"
	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// AuthHandler handles the direct (non-wizard) auth endpoints: register, login,
// OTP request/verify, and standalone CAPTCHA verification.
type AuthHandler struct {
	identity ports.IdentityService
	captcha  ports.CaptchaVerifier
}

func NewAuthHandler(identity ports.IdentityService, captcha ports.CaptchaVerifier) *AuthHandler {
	return &AuthHandler{identity: identity, captcha: captcha}
}

// Register creates a new marketplace identity.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.identity.Register(c.Request().Context(), ports.RegisterInput{
		Role:              domain.Role(req.Role),
		Prefix:            req.Prefix,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Mobile:            req.Mobile,
		Password:          req.Password,
		Designation:       req.Designation,
		Country:           req.Country,
		SectorsOfInterest: req.SectorsOfInterest,
		FunctionalAreas:   req.FunctionalAreas,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(identity.Role)).Inc()
	return c.JSON(http.StatusCreated, authResponse{Identity: identity})
}

// Login authenticates credentials and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.identity.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: result.Token, Identity: result.Identity})
}

// RequestOTP issues a fresh email verification challenge.
//
// @Summary      Request an OTP challenge
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      otpRequestRequest  true  "Account email"
// @Success      201   {object}  otpIssuedResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/otp/request [post]
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req otpRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	otpID, err := h.identity.RequestOTP(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	metrics.OTPIssuedTotal.Inc()
	return c.JSON(http.StatusCreated, otpIssuedResponse{OTPID: otpID})
}

// VerifyOTP redeems a challenge and returns a session token.
//
// @Summary      Redeem an OTP challenge
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      otpVerifyRequest  true  "Challenge handle and code"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req otpVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.identity.RedeemOTP(c.Request().Context(), req.OTPID, req.Code)
	metrics.OTPRedeemDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OTPRedeemedTotal.WithLabelValues(redeemResult(err)).Inc()
		return err
	}

	metrics.OTPRedeemedTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: result.Token, Identity: result.Identity})
}

// VerifyCaptcha checks a CAPTCHA response token against the provider.
//
// @Summary      Verify a CAPTCHA token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      captchaVerifyRequest  true  "CAPTCHA response token"
// @Success      200   {object}  okResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/auth/captcha/verify [post]
func (h *AuthHandler) VerifyCaptcha(c echo.Context) error {
	var req captchaVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.captcha.Verify(c.Request().Context(), req.Token); err != nil {
		metrics.CaptchaChecksTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.CaptchaChecksTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, okResponse{Success: true})
}

// redeemResult maps a redemption error onto its metric label.
func redeemResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrOTPInvalid):
		return "invalid"
	case errors.Is(err, domain.ErrOTPExpired):
		return "expired"
	case errors.Is(err, domain.ErrOTPNotFound):
		return "not_found"
	default:
		return "error"
	}
}
