package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/api/metrics"
	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
	"github.com/b2blink/marketplace-api/internal/core/service"
)

// flowTTL bounds how long an abandoned wizard survives between steps.
const flowTTL = 30 * time.Minute

// FlowHandler drives the three-step registration wizard over stateless HTTP.
// Each request restores the wizard from its stored snapshot, applies one
// transition, and writes the snapshot back; the snapshot expires with the
// store's TTL so abandoned registrations clean themselves up.
type FlowHandler struct {
	backend ports.IdentityService
	captcha ports.CaptchaVerifier
	flows   ports.FlowStore
	log     zerolog.Logger
}

func NewFlowHandler(backend ports.IdentityService, captcha ports.CaptchaVerifier, flows ports.FlowStore, log zerolog.Logger) *FlowHandler {
	return &FlowHandler{backend: backend, captcha: captcha, flows: flows, log: log}
}

// --- Request / Response types ---

type selectRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=buyer seller"`
}

type submitProfileRequest struct {
	registerRequest
}

type verifyRequest struct {
	Code         string `json:"code"`
	CaptchaToken string `json:"captcha_token"`
}

type flowResponse struct {
	FlowID      string `json:"flow_id"`
	State       string `json:"state"`
	Role        string `json:"role,omitempty"`
	Email       string `json:"email,omitempty"`
	Destination string `json:"destination,omitempty"`
}

type flowCompletedResponse struct {
	FlowID      string           `json:"flow_id"`
	State       string           `json:"state"`
	Destination string           `json:"destination"`
	Token       string           `json:"token"`
	Identity    *domain.Identity `json:"identity"`
}

// Start opens a new wizard at the role selection step.
//
// @Summary      Start a registration wizard
// @Tags         registration
// @Produce      json
// @Success      201  {object}  flowResponse
// @Router       /v1/auth/flow [post]
func (h *FlowHandler) Start(c echo.Context) error {
	flow := service.NewRegistrationFlow(uuid.NewString(), h.backend, h.captcha, nil, h.log)

	if err := h.flows.Save(c.Request().Context(), flow.Snapshot(), flowTTL); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.view(flow))
}

// Get returns the wizard's current step and entered values.
//
// @Summary      Inspect a registration wizard
// @Tags         registration
// @Produce      json
// @Param        id   path      string  true  "Flow ID"
// @Success      200  {object}  flowResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/auth/flow/{id} [get]
func (h *FlowHandler) Get(c echo.Context) error {
	flow, err := h.restore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(flow))
}

// SelectRole advances role selection with the chosen role.
//
// @Summary      Choose buyer or seller
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Flow ID"
// @Param        body  body      selectRoleRequest  true  "Chosen role"
// @Success      200   {object}  flowResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/auth/flow/{id}/role [post]
func (h *FlowHandler) SelectRole(c echo.Context) error {
	var req selectRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	flow, err := h.restore(c)
	if err != nil {
		return err
	}
	if err := flow.SelectRole(domain.Role(req.Role)); err != nil {
		return err
	}
	return h.persist(c, flow)
}

// SubmitProfile submits the profile form: local validation, account creation,
// OTP issuance. The wizard stays on this step when anything fails, so the
// entered values survive a retry.
//
// @Summary      Submit the profile form
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Flow ID"
// @Param        body  body      submitProfileRequest  true  "Profile fields"
// @Success      200   {object}  flowResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/auth/flow/{id}/profile [post]
func (h *FlowHandler) SubmitProfile(c echo.Context) error {
	var req submitProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	flow, err := h.restore(c)
	if err != nil {
		return err
	}

	form := service.ProfileForm{
		RegisterInput: ports.RegisterInput{
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
		},
		PasswordConfirm: req.PasswordConfirm,
	}

	submitErr := flow.SubmitProfile(c.Request().Context(), form)
	if submitErr == nil {
		metrics.RegistrationsTotal.WithLabelValues(string(flow.Form().Role)).Inc()
		metrics.OTPIssuedTotal.Inc()
	}

	// The snapshot is written even on failure: a duplicate-email error must
	// not lose the other entered fields.
	if err := h.flows.Save(c.Request().Context(), flow.Snapshot(), flowTTL); err != nil {
		h.log.Warn().Err(err).Str("flow_id", flow.ID()).Msg("failed to persist wizard snapshot")
	}
	if submitErr != nil {
		return submitErr
	}
	return c.JSON(http.StatusOK, h.view(flow))
}

// Verify redeems the OTP code and checks the CAPTCHA token. Both proofs must
// pass; any failure keeps the wizard on the verification step. Completion
// deletes the stored snapshot and returns the authenticated session.
//
// @Summary      Complete email verification
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Flow ID"
// @Param        body  body      verifyRequest  true  "OTP code and CAPTCHA token"
// @Success      200   {object}  flowCompletedResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/auth/flow/{id}/verify [post]
func (h *FlowHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	flow, err := h.restore(c)
	if err != nil {
		return err
	}

	start := time.Now()
	dest, err := flow.SubmitVerification(c.Request().Context(), req.Code, req.CaptchaToken)
	metrics.OTPRedeemDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrCaptchaFailed) {
			metrics.CaptchaChecksTotal.WithLabelValues("failure").Inc()
		} else if !errors.Is(err, service.ErrVerificationIncomplete) {
			metrics.OTPRedeemedTotal.WithLabelValues(redeemResult(err)).Inc()
		}
		return err
	}

	metrics.OTPRedeemedTotal.WithLabelValues("success").Inc()
	metrics.CaptchaChecksTotal.WithLabelValues("success").Inc()

	if err := h.flows.Delete(c.Request().Context(), flow.ID()); err != nil {
		h.log.Warn().Err(err).Str("flow_id", flow.ID()).Msg("failed to delete completed wizard")
	}

	result := flow.Result()
	return c.JSON(http.StatusOK, flowCompletedResponse{
		FlowID:      flow.ID(),
		State:       string(flow.State()),
		Destination: string(dest),
		Token:       result.Token,
		Identity:    result.Identity,
	})
}

// Resend issues a fresh OTP challenge for the same email. The previous handle
// is replaced, so only the latest code completes the wizard.
//
// @Summary      Resend the OTP challenge
// @Tags         registration
// @Produce      json
// @Param        id   path      string  true  "Flow ID"
// @Success      200  {object}  flowResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/auth/flow/{id}/resend [post]
func (h *FlowHandler) Resend(c echo.Context) error {
	flow, err := h.restore(c)
	if err != nil {
		return err
	}
	if err := flow.ResendOTP(c.Request().Context()); err != nil {
		return err
	}

	metrics.OTPIssuedTotal.Inc()
	return h.persist(c, flow)
}

// Back returns from verification to the profile form, keeping entered values.
//
// @Summary      Go back to the profile form
// @Tags         registration
// @Produce      json
// @Param        id   path      string  true  "Flow ID"
// @Success      200  {object}  flowResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/auth/flow/{id}/back [post]
func (h *FlowHandler) Back(c echo.Context) error {
	flow, err := h.restore(c)
	if err != nil {
		return err
	}
	if err := flow.Back(); err != nil {
		return err
	}
	return h.persist(c, flow)
}

// restore loads the wizard snapshot named by the :id path param.
func (h *FlowHandler) restore(c echo.Context) (*service.RegistrationFlow, error) {
	snap, err := h.flows.Find(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	return service.RestoreFlow(*snap, h.backend, h.captcha, nil, h.log), nil
}

// persist writes the snapshot back and renders the step view.
func (h *FlowHandler) persist(c echo.Context, flow *service.RegistrationFlow) error {
	if err := h.flows.Save(c.Request().Context(), flow.Snapshot(), flowTTL); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(flow))
}

func (h *FlowHandler) view(flow *service.RegistrationFlow) flowResponse {
	form := flow.Form()
	return flowResponse{
		FlowID:      flow.ID(),
		State:       string(flow.State()),
		Role:        string(form.Role),
		Email:       form.Email,
		Destination: string(flow.Destination()),
	}
}
