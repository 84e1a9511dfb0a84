package ports

import (
	"context"
	"errors"
	"time"
)

// ErrFlowNotFound is returned when a wizard snapshot is missing or expired.
var ErrFlowNotFound = errors.New("registration flow not found or expired")

// FlowSnapshot is the serialized state of a registration wizard between HTTP
// steps. State is the wizard's own state label; the store treats it as opaque.
type FlowSnapshot struct {
	ID          string        `json:"id"`
	State       string        `json:"state"`
	Role        string        `json:"role,omitempty"`
	Form        RegisterInput `json:"form"`
	OTPID       string        `json:"otp_id,omitempty"`
	IdentityID  string        `json:"identity_id,omitempty"`
	Destination string        `json:"destination,omitempty"`
}

// FlowStore persists wizard snapshots so the three-step registration survives
// across stateless HTTP requests.
type FlowStore interface {
	Save(ctx context.Context, snapshot FlowSnapshot, ttl time.Duration) error
	Find(ctx context.Context, id string) (*FlowSnapshot, error)
	Delete(ctx context.Context, id string) error
}
