package domain

import (
	"errors"
	"time"
)

// Role classifies what an account can do in the marketplace. Sellers list
// companies and products, buyers browse and post requirements.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// ProfileStatus gates access to full marketplace features. New accounts start
// pending and an administrator moves them to approved or rejected.
type ProfileStatus string

const (
	ProfilePending  ProfileStatus = "pending"
	ProfileApproved ProfileStatus = "approved"
	ProfileRejected ProfileStatus = "rejected"
)

// MembershipStatus marks paid membership. Only active members get write
// access to companies and products.
type MembershipStatus string

const (
	MembershipInactive MembershipStatus = "inactive"
	MembershipActive   MembershipStatus = "active"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
var ErrPasswordMismatch = errors.New("passwords do not match")
var ErrIdentityNotFound = errors.New("identity not found")
var ErrIdentityExists = errors.New("an account with this email already exists")
var ErrForbidden = errors.New("access forbidden")
var ErrNotVerified = errors.New("email not verified")

var ErrOTPNotFound = errors.New("OTP not found or expired")
var ErrOTPExpired = errors.New("OTP has expired")
var ErrOTPInvalid = errors.New("invalid OTP")
var ErrCaptchaFailed = errors.New("CAPTCHA verification failed")

// Identity is the authenticated principal: credentials, role, status gates,
// and the free-form profile captured at registration. Profile fields are
// validated for presence only, never semantically.
type Identity struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	PasswordHash     string           `json:"-"`
	Role             Role             `json:"role"`
	ProfileStatus    ProfileStatus    `json:"profile_status"`
	MembershipStatus MembershipStatus `json:"membership_status"`
	Verified         bool             `json:"verified"`

	Prefix            string   `json:"prefix"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	Mobile            string   `json:"mobile"`
	Designation       string   `json:"designation"`
	Country           string   `json:"country"`
	SectorsOfInterest []string `json:"sectors_of_interest,omitempty"`
	FunctionalAreas   []string `json:"functional_areas,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsApproved reports whether the account passed admin review.
func (i *Identity) IsApproved() bool {
	return i.ProfileStatus == ProfileApproved
}

// IsMember reports whether the account holds an active membership. Membership
// is what unlocks company/product writes, on top of approval.
func (i *Identity) IsMember() bool {
	return i.Role == RoleSeller && i.ProfileStatus == ProfileApproved && i.MembershipStatus == MembershipActive
}

// OTPChallenge is an ephemeral email-ownership proof. The store enforces the
// expiry; a successful redemption consumes the record so each code is
// single-use.
type OTPChallenge struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the challenge is past its expiry at time now.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
