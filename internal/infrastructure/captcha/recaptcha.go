package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Verifier redeems reCAPTCHA tokens against Google's siteverify endpoint.
// Tokens are single-use on the Google side; a failed attempt cannot be
// retried with the same token.
type Verifier struct {
	secret   string
	endpoint string
	client   *http.Client
}

// NewVerifier creates a Verifier. endpoint is configurable so tests can point
// it at a local server.
func NewVerifier(secret, endpoint string) *Verifier {
	return &Verifier{
		secret:   secret,
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// Verify redeems the token. Transport failures surface as wrapped errors;
// a definitive rejection is domain.ErrCaptchaFailed.
func (v *Verifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrCaptchaFailed
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha verify: %w", err)
	}
	defer resp.Body.Close()

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("captcha decode: %w", err)
	}

	if !body.Success {
		return domain.ErrCaptchaFailed
	}
	return nil
}
