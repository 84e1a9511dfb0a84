package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// SessionStorage is the durable copy of a session store's token+identity
// pair. One instance maps to one storage key, so each session store owner
// (e.g. a CLI profile) gets its own slot.
type SessionStorage struct {
	client *redis.Client
	key    string
}

// NewSessionStorage creates a SessionStorage persisting under "session:<name>".
func NewSessionStorage(client *redis.Client, name string) *SessionStorage {
	return &SessionStorage{client: client, key: "session:" + name}
}

// Load reads the persisted record. Absent keys return (nil, nil); corrupted
// payloads return an error the session store logs and recovers from.
func (s *SessionStorage) Load(ctx context.Context) (*ports.SessionRecord, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var record ports.SessionRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &record, nil
}

// Save writes the record with no expiry; logout is the only eviction.
func (s *SessionStorage) Save(ctx context.Context, record ports.SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

// Clear removes the persisted record.
func (s *SessionStorage) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
