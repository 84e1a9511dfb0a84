package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

const minPasswordLength = 8

// MailDispatcher abstracts the async OTP delivery queue.
type MailDispatcher interface {
	Enqueue(mail ports.OTPMail)
}

// IdentityService implements registration, login, and the OTP challenge
// lifecycle over the identity repository and the challenge store.
type IdentityService struct {
	repo      ports.IdentityRepository
	otps      ports.OTPStore
	mail      MailDispatcher
	log       zerolog.Logger
	jwtSecret string
	tokenTTL  time.Duration
	otpTTL    time.Duration
	otpDigits int
}

// NewIdentityService returns an IdentityService with sane defaults applied:
// 24h tokens, 3-minute OTP expiry, 8-digit codes.
func NewIdentityService(
	repo ports.IdentityRepository,
	otps ports.OTPStore,
	mail MailDispatcher,
	jwtSecret string,
	tokenTTL time.Duration,
	otpTTL time.Duration,
	otpDigits int,
	log zerolog.Logger,
) *IdentityService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if otpTTL <= 0 {
		otpTTL = 3 * time.Minute
	}
	if otpDigits <= 0 {
		otpDigits = 8
	}
	return &IdentityService{
		repo:      repo,
		otps:      otps,
		mail:      mail,
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		otpTTL:    otpTTL,
		otpDigits: otpDigits,
	}
}

// Register creates an unverified identity with a pending profile. The chosen
// role is fixed at creation; approval and membership are admin actions.
func (s *IdentityService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !in.Role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Email:             in.Email,
		PasswordHash:      string(hash),
		Role:              in.Role,
		ProfileStatus:     domain.ProfilePending,
		MembershipStatus:  domain.MembershipInactive,
		Verified:          false,
		Prefix:            in.Prefix,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Mobile:            in.Mobile,
		Designation:       in.Designation,
		Country:           in.Country,
		SectorsOfInterest: in.SectorsOfInterest,
		FunctionalAreas:   in.FunctionalAreas,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, identity)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Authenticate exchanges credentials for a signed token and the identity.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(identity)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{Token: token, Identity: identity}, nil
}

// RequestOTP issues a fresh challenge for the identity behind email and
// queues the code for delivery. Each call produces a new opaque handle; any
// previously issued challenge is left to expire on its own.
func (s *IdentityService) RequestOTP(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	code, err := s.generateCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	challenge := domain.OTPChallenge{
		ID:         uuid.NewString(),
		IdentityID: identity.ID,
		Email:      identity.Email,
		Code:       code,
		ExpiresAt:  time.Now().UTC().Add(s.otpTTL),
	}
	if err := s.otps.Save(ctx, challenge, s.otpTTL); err != nil {
		return "", fmt.Errorf("save otp challenge: %w", err)
	}

	// Delivery is async; issuance never blocks on the mail transport.
	s.mail.Enqueue(ports.OTPMail{Email: identity.Email, Code: code})

	return challenge.ID, nil
}

// RedeemOTP verifies the code against the stored challenge. A wrong code
// leaves the challenge in place so the user may retry; a correct code
// consumes it, marks the identity verified (best-effort), and returns an
// authenticated session.
func (s *IdentityService) RedeemOTP(ctx context.Context, otpID, code string) (*ports.AuthResult, error) {
	if otpID == "" || code == "" {
		return nil, domain.ErrOTPInvalid
	}

	challenge, err := s.otps.Find(ctx, otpID)
	if err != nil {
		return nil, err
	}
	if challenge.Expired(time.Now().UTC()) {
		_ = s.otps.Delete(ctx, otpID)
		return nil, domain.ErrOTPExpired
	}
	if challenge.Code != code {
		return nil, domain.ErrOTPInvalid
	}

	// Single-use: consume before handing out a session.
	if err := s.otps.Delete(ctx, otpID); err != nil {
		s.log.Warn().Err(err).Str("otp_id", otpID).Msg("failed to delete redeemed otp challenge")
	}

	identity, err := s.repo.FindByID(ctx, challenge.IdentityID)
	if err != nil {
		return nil, err
	}

	if !identity.Verified {
		if err := s.repo.SetVerified(ctx, identity.ID, true); err != nil {
			// Best-effort side effect: the redemption itself succeeded.
			s.log.Error().Err(err).Str("identity_id", identity.ID).Msg("failed to persist verified flag")
		} else {
			identity.Verified = true
		}
	}

	token, err := s.generateToken(identity)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{Token: token, Identity: identity}, nil
}

// GetByID loads a single identity.
func (s *IdentityService) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies a partial profile update. Role, statuses, and the
// verified flag are not reachable through this path.
func (s *IdentityService) UpdateProfile(ctx context.Context, id string, in ports.ProfileUpdateInput) (*domain.Identity, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Prefix != nil {
		identity.Prefix = *in.Prefix
	}
	if in.FirstName != nil {
		identity.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		identity.LastName = *in.LastName
	}
	if in.Mobile != nil {
		identity.Mobile = *in.Mobile
	}
	if in.Designation != nil {
		identity.Designation = *in.Designation
	}
	if in.Country != nil {
		identity.Country = *in.Country
	}
	if in.SectorsOfInterest != nil {
		identity.SectorsOfInterest = in.SectorsOfInterest
	}
	if in.FunctionalAreas != nil {
		identity.FunctionalAreas = in.FunctionalAreas
	}
	identity.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, identity)
}

// Approve moves an identity's profile to approved. Admin-only; not exposed on
// the public API surface.
func (s *IdentityService) Approve(ctx context.Context, id string) error {
	return s.repo.SetProfileStatus(ctx, id, domain.ProfileApproved)
}

// SetMembership activates or deactivates an identity's membership.
func (s *IdentityService) SetMembership(ctx context.Context, id string, status domain.MembershipStatus) error {
	if status != domain.MembershipActive && status != domain.MembershipInactive {
		return fmt.Errorf("unknown membership status %q", status)
	}
	return s.repo.SetMembershipStatus(ctx, id, status)
}

func (s *IdentityService) generateToken(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":               identity.ID,
		"email":             identity.Email,
		"role":              string(identity.Role),
		"verified":          identity.Verified,
		"profile_status":    string(identity.ProfileStatus),
		"membership_status": string(identity.MembershipStatus),
		"exp":               time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// generateCode produces a numeric code with a non-zero leading digit, so an
// 8-digit configuration always yields exactly 8 characters.
func (s *IdentityService) generateCode() (string, error) {
	low := int64(1)
	for i := 1; i < s.otpDigits; i++ {
		low *= 10
	}
	n, err := rand.Int(rand.Reader, big.NewInt(low*9))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", low+n.Int64()), nil
}
