package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// FlowState labels the registration wizard's current step.
type FlowState string

const (
	StateRoleSelection     FlowState = "role_selection"
	StateProfileForm       FlowState = "profile_form"
	StateEmailVerification FlowState = "email_verification"
	StateCompleted         FlowState = "completed"
)

var ErrFlowBusy = errors.New("a submission is already in progress")
var ErrFlowState = errors.New("operation not allowed in the current step")
var ErrVerificationIncomplete = errors.New("OTP code and CAPTCHA token are both required")

// ErrValidation marks failures caught locally before any backend call.
var ErrValidation = errors.New("validation failed")

// IdentityBackend is the slice of the identity service the wizard calls:
// create account, request OTP, redeem OTP.
type IdentityBackend interface {
	Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error)
	RequestOTP(ctx context.Context, email string) (string, error)
	RedeemOTP(ctx context.Context, otpID, code string) (*ports.AuthResult, error)
}

// ProfileForm is the wizard's second step: the registration fields plus the
// local-only password confirmation.
type ProfileForm struct {
	ports.RegisterInput
	PasswordConfirm string
}

// RegistrationFlow drives the three-step registration wizard:
//
//	RoleSelection → ProfileForm → EmailVerification → Completed
//
// Entered form values survive Back; a resend replaces the stored challenge
// handle so only the latest code is redeemable from the wizard's point of
// view. A flow instance refuses overlapping submissions.
type RegistrationFlow struct {
	id       string
	backend  IdentityBackend
	captcha  ports.CaptchaVerifier
	sessions *SessionStore
	log      zerolog.Logger

	mu          sync.Mutex
	busy        bool
	state       FlowState
	form        ProfileForm
	otpID       string
	identityID  string
	destination Route
	result      *ports.AuthResult
}

// NewRegistrationFlow starts a wizard at RoleSelection. sessions may be nil
// when the caller manages the authenticated pair itself.
func NewRegistrationFlow(id string, backend IdentityBackend, captcha ports.CaptchaVerifier, sessions *SessionStore, log zerolog.Logger) *RegistrationFlow {
	return &RegistrationFlow{
		id:       id,
		backend:  backend,
		captcha:  captcha,
		sessions: sessions,
		log:      log,
		state:    StateRoleSelection,
	}
}

// ID returns the wizard instance identifier.
func (f *RegistrationFlow) ID() string { return f.id }

// State returns the wizard's current step.
func (f *RegistrationFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns the entered field values; preserved across Back.
func (f *RegistrationFlow) Form() ProfileForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// OTPID returns the handle of the latest issued challenge.
func (f *RegistrationFlow) OTPID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.otpID
}

// Destination returns where a completed registration routes to.
func (f *RegistrationFlow) Destination() Route {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destination
}

// Result returns the authenticated pair produced by a completed verification,
// or nil before completion. Not persisted in snapshots.
func (f *RegistrationFlow) Result() *ports.AuthResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// SelectRole advances RoleSelection → ProfileForm carrying the chosen role.
func (f *RegistrationFlow) SelectRole(role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateRoleSelection {
		return ErrFlowState
	}
	if !role.Valid() {
		return fmt.Errorf("%w: role must be buyer or seller", ErrValidation)
	}
	f.form.Role = role
	f.state = StateProfileForm
	return nil
}

// SubmitProfile validates the form locally, creates the identity, and
// requests an OTP challenge. Local validation failures block submission
// before any backend call. A creation failure (e.g. duplicate email) keeps
// the wizard in ProfileForm with the backend's message; an OTP request
// failure after a successful creation also stays (the account exists but is
// unverified, and nothing retries automatically).
func (f *RegistrationFlow) SubmitProfile(ctx context.Context, form ProfileForm) error {
	if err := f.begin(StateProfileForm); err != nil {
		return err
	}
	defer f.end()

	f.mu.Lock()
	form.Role = f.form.Role
	f.form = form
	f.mu.Unlock()

	if err := validateProfile(form); err != nil {
		return err
	}

	identity, err := f.backend.Register(ctx, form.RegisterInput)
	if err != nil {
		return err
	}

	otpID, err := f.backend.RequestOTP(ctx, identity.Email)
	if err != nil {
		f.mu.Lock()
		f.identityID = identity.ID
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.identityID = identity.ID
	f.otpID = otpID
	f.state = StateEmailVerification
	f.mu.Unlock()
	return nil
}

// CanSubmitVerification reports whether the verification step may be
// submitted: both an OTP code and a CAPTCHA token must be present.
func (f *RegistrationFlow) CanSubmitVerification(code, captchaToken string) bool {
	return strings.TrimSpace(code) != "" && strings.TrimSpace(captchaToken) != ""
}

// SubmitVerification redeems the OTP and verifies the CAPTCHA token. Both
// proofs must succeed for the registration to complete; any failure leaves
// the wizard in EmailVerification for a retry (a failed CAPTCHA burns the
// token, so the client must obtain a fresh one). On completion the
// authenticated pair is handed to the session store and the wizard routes by
// role: sellers to company setup, everyone else to the pending dashboard.
func (f *RegistrationFlow) SubmitVerification(ctx context.Context, code, captchaToken string) (Route, error) {
	if err := f.begin(StateEmailVerification); err != nil {
		return "", err
	}
	defer f.end()

	if !f.CanSubmitVerification(code, captchaToken) {
		return "", ErrVerificationIncomplete
	}

	f.mu.Lock()
	otpID := f.otpID
	role := f.form.Role
	f.mu.Unlock()

	result, err := f.backend.RedeemOTP(ctx, otpID, code)
	if err != nil {
		return "", err
	}

	if err := f.captcha.Verify(ctx, captchaToken); err != nil {
		return "", err
	}

	dest := RoutePendingReview
	if role == domain.RoleSeller {
		dest = RouteCompanySetup
	}

	f.mu.Lock()
	f.state = StateCompleted
	f.destination = dest
	f.result = result
	f.mu.Unlock()

	if f.sessions != nil {
		f.sessions.Adopt(ctx, result)
	}
	return dest, nil
}

// ResendOTP issues a new challenge for the same email and replaces the stored
// handle. Works at any point in EmailVerification, including after the
// previous challenge expired; no entered state is lost.
func (f *RegistrationFlow) ResendOTP(ctx context.Context) error {
	if err := f.begin(StateEmailVerification); err != nil {
		return err
	}
	defer f.end()

	f.mu.Lock()
	email := f.form.Email
	f.mu.Unlock()

	otpID, err := f.backend.RequestOTP(ctx, email)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.otpID = otpID
	f.mu.Unlock()
	return nil
}

// Back returns from EmailVerification to ProfileForm without discarding the
// entered field values.
func (f *RegistrationFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateEmailVerification {
		return ErrFlowState
	}
	f.state = StateProfileForm
	return nil
}

// begin acquires the single-submission guard and checks the expected state.
func (f *RegistrationFlow) begin(expected FlowState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy {
		return ErrFlowBusy
	}
	if f.state != expected {
		return ErrFlowState
	}
	f.busy = true
	return nil
}

func (f *RegistrationFlow) end() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

// Snapshot serializes the wizard for the flow store.
func (f *RegistrationFlow) Snapshot() ports.FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := ports.FlowSnapshot{
		ID:          f.id,
		State:       string(f.state),
		Role:        string(f.form.Role),
		Form:        f.form.RegisterInput,
		OTPID:       f.otpID,
		IdentityID:  f.identityID,
		Destination: string(f.destination),
	}
	// The password never leaves the process; a resubmission carries it again.
	snap.Form.Password = ""
	return snap
}

// RestoreFlow rebuilds a wizard from a stored snapshot.
func RestoreFlow(snap ports.FlowSnapshot, backend IdentityBackend, captcha ports.CaptchaVerifier, sessions *SessionStore, log zerolog.Logger) *RegistrationFlow {
	f := NewRegistrationFlow(snap.ID, backend, captcha, sessions, log)
	f.state = FlowState(snap.State)
	f.form = ProfileForm{RegisterInput: snap.Form}
	f.form.Role = domain.Role(snap.Role)
	f.otpID = snap.OTPID
	f.identityID = snap.IdentityID
	f.destination = Route(snap.Destination)
	return f
}

// validateProfile performs the wizard's local checks: required presence,
// password length, confirmation match. Passwords are checked last so field
// presence errors surface first, matching the form's top-to-bottom order.
func validateProfile(form ProfileForm) error {
	required := []struct {
		name  string
		value string
	}{
		{"prefix", form.Prefix},
		{"first name", form.FirstName},
		{"last name", form.LastName},
		{"email", form.Email},
		{"mobile", form.Mobile},
		{"country", form.Country},
		{"password", form.Password},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field.name)
		}
	}
	if len(form.Password) < minPasswordLength {
		return fmt.Errorf("%w: %s", ErrValidation, domain.ErrPasswordTooShort)
	}
	if form.Password != form.PasswordConfirm {
		return fmt.Errorf("%w: %s", ErrValidation, domain.ErrPasswordMismatch)
	}
	return nil
}
