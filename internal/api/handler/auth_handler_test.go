package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

type stubIdentityService struct {
	registerFn    func(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error)
	authFn        func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	requestOTPFn  func(ctx context.Context, email string) (string, error)
	redeemOTPFn   func(ctx context.Context, otpID, code string) (*ports.AuthResult, error)
	getByIDFn     func(ctx context.Context, id string) (*domain.Identity, error)
	updateFn      func(ctx context.Context, id string, in ports.ProfileUpdateInput) (*domain.Identity, error)
	approveFn     func(ctx context.Context, id string) error
	membershipFn  func(ctx context.Context, id string, status domain.MembershipStatus) error
}

func (s *stubIdentityService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	return s.registerFn(ctx, in)
}

func (s *stubIdentityService) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.authFn(ctx, email, password)
}

func (s *stubIdentityService) RequestOTP(ctx context.Context, email string) (string, error) {
	return s.requestOTPFn(ctx, email)
}

func (s *stubIdentityService) RedeemOTP(ctx context.Context, otpID, code string) (*ports.AuthResult, error) {
	return s.redeemOTPFn(ctx, otpID, code)
}

func (s *stubIdentityService) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubIdentityService) UpdateProfile(ctx context.Context, id string, in ports.ProfileUpdateInput) (*domain.Identity, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubIdentityService) Approve(ctx context.Context, id string) error {
	return s.approveFn(ctx, id)
}

func (s *stubIdentityService) SetMembership(ctx context.Context, id string, status domain.MembershipStatus) error {
	return s.membershipFn(ctx, id, status)
}

type stubCaptchaVerifier struct {
	err error
}

func (s *stubCaptchaVerifier) Verify(_ context.Context, _ string) error {
	return s.err
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const validRegisterBody = `{
	"role": "seller",
	"prefix": "Ms",
	"first_name": "Ana",
	"last_name": "Lima",
	"email": "ana@example.com",
	"mobile": "+5511999999999",
	"password": "longenough",
	"password_confirm": "longenough",
	"country": "BR"
}`

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubIdentityService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Identity, error) {
			if in.Role != domain.RoleSeller || in.Email != "ana@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Identity{ID: "id-1", Email: in.Email, Role: in.Role, ProfileStatus: domain.ProfilePending}, nil
		},
	}
	h := NewAuthHandler(stub, &stubCaptchaVerifier{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/register", validRegisterBody)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	identity, ok := resp["identity"].(map[string]any)
	if !ok {
		t.Fatalf("expected identity in response")
	}
	if identity["email"] != "ana@example.com" || identity["profile_status"] != "pending" {
		t.Fatalf("unexpected identity payload: %+v", identity)
	}
}

func TestAuthHandler_Register_ValidationRejects(t *testing.T) {
	h := NewAuthHandler(&stubIdentityService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.Identity, error) {
			t.Fatalf("service must not be called on validation failure")
			return nil, nil
		},
	}, &stubCaptchaVerifier{})

	cases := []struct {
		name string
		body string
	}{
		{"legacy role", strings.Replace(validRegisterBody, `"seller"`, `"member"`, 1)},
		{"short password", strings.NewReplacer(`"longenough"`, `"short"`).Replace(validRegisterBody)},
		{"confirmation mismatch", strings.Replace(validRegisterBody, `"password_confirm": "longenough"`, `"password_confirm": "different1"`, 1)},
		{"bad email", strings.Replace(validRegisterBody, "ana@example.com", "not-an-email", 1)},
	}

	for _, tc := range cases {
		c, _ := newTestContext(t, http.MethodPost, "/v1/auth/register", tc.body)
		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", tc.name, err)
		}
	}
}

func TestAuthHandler_Register_DuplicatePassesThrough(t *testing.T) {
	h := NewAuthHandler(&stubIdentityService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.Identity, error) {
			return nil, domain.ErrIdentityExists
		},
	}, &stubCaptchaVerifier{})

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/register", validRegisterBody)
	if err := h.Register(c); !errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists surfaced to the error handler, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubIdentityService{
		authFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "ana@example.com" || password != "longenough" {
				return nil, domain.ErrInvalidCredentials
			}
			return &ports.AuthResult{Token: "tok", Identity: &domain.Identity{ID: "id-1", Email: email}}, nil
		},
	}, &stubCaptchaVerifier{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/login", `{"email":"ana@example.com","password":"longenough"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["token"] != "tok" {
		t.Fatalf("expected token in response: %+v", resp)
	}

	c, _ = newTestContext(t, http.MethodPost, "/v1/auth/login", `{"email":"ana@example.com","password":"wrongpass"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_OTPLifecycle(t *testing.T) {
	h := NewAuthHandler(&stubIdentityService{
		requestOTPFn: func(_ context.Context, email string) (string, error) {
			if email != "ana@example.com" {
				return "", domain.ErrIdentityNotFound
			}
			return "otp-1", nil
		},
		redeemOTPFn: func(_ context.Context, otpID, code string) (*ports.AuthResult, error) {
			if otpID != "otp-1" || code != "12345678" {
				return nil, domain.ErrOTPInvalid
			}
			return &ports.AuthResult{Token: "tok", Identity: &domain.Identity{ID: "id-1", Verified: true}}, nil
		},
	}, &stubCaptchaVerifier{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/otp/request", `{"email":"ana@example.com"}`)
	if err := h.RequestOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var issued map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &issued)
	if issued["otp_id"] != "otp-1" {
		t.Fatalf("expected otp handle, got %+v", issued)
	}

	c, rec = newTestContext(t, http.MethodPost, "/v1/auth/otp/verify", `{"otp_id":"otp-1","code":"12345678"}`)
	if err := h.VerifyOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newTestContext(t, http.MethodPost, "/v1/auth/otp/verify", `{"otp_id":"otp-1","code":"00000000"}`)
	if err := h.VerifyOTP(c); !errors.Is(err, domain.ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid, got %v", err)
	}
}

func TestAuthHandler_VerifyCaptcha(t *testing.T) {
	h := NewAuthHandler(&stubIdentityService{}, &stubCaptchaVerifier{})
	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/captcha/verify", `{"token":"ok-token"}`)
	if err := h.VerifyCaptcha(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	h = NewAuthHandler(&stubIdentityService{}, &stubCaptchaVerifier{err: domain.ErrCaptchaFailed})
	c, _ = newTestContext(t, http.MethodPost, "/v1/auth/captcha/verify", `{"token":"bad-token"}`)
	if err := h.VerifyCaptcha(c); !errors.Is(err, domain.ErrCaptchaFailed) {
		t.Fatalf("expected ErrCaptchaFailed, got %v", err)
	}
}
