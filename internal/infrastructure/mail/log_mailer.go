package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// LogMailer writes OTP codes to the log instead of sending mail. Used in
// development; swap for a real transport behind the same interface.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(_ context.Context, mail ports.OTPMail) error {
	m.log.Info().Str("email", mail.Email).Str("code", mail.Code).Msg("otp mail")
	return nil
}
