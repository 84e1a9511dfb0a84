package ports

import (
	"context"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

// SessionRecord is the durable token+identity pair the session store writes
// on login as a redundant copy of its in-memory state.
type SessionRecord struct {
	Token    string           `json:"token"`
	Identity *domain.Identity `json:"identity"`
}

// SessionStorage is the persisted key-value copy of the current session.
// Load returns (nil, nil) when nothing is stored; corrupted data surfaces as
// an error the caller logs and recovers from, never a crash.
type SessionStorage interface {
	Load(ctx context.Context) (*SessionRecord, error)
	Save(ctx context.Context, record SessionRecord) error
	Clear(ctx context.Context) error
}
