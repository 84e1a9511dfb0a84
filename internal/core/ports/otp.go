package ports

import (
	"context"
	"time"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

// OTPStore persists OTP challenges keyed by their opaque handle. The store
// owns expiry; Find must return domain.ErrOTPNotFound for missing or expired
// challenges so callers never see stale codes.
type OTPStore interface {
	Save(ctx context.Context, challenge domain.OTPChallenge, ttl time.Duration) error
	Find(ctx context.Context, otpID string) (*domain.OTPChallenge, error)
	Delete(ctx context.Context, otpID string) error
}

// OTPMail is a queued code delivery. Delivery is asynchronous; issuance never
// waits on the mail transport.
type OTPMail struct {
	Email string
	Code  string
}

// Mailer sends a single OTP mail synchronously. Implementations are called
// from dispatcher workers, not from request paths.
type Mailer interface {
	SendOTP(ctx context.Context, mail OTPMail) error
}
