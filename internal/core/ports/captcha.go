package ports

import "context"

// CaptchaVerifier redeems a one-time CAPTCHA token against the third-party
// endpoint. Tokens are single-use: a failed attempt burns the token and the
// client must obtain a fresh one. Verification failure is reported as
// domain.ErrCaptchaFailed.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) error
}
