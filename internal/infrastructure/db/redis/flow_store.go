package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// FlowStore persists registration wizard snapshots between HTTP steps.
// Key format: regflow:<flow_id>
type FlowStore struct {
	client *redis.Client
}

// NewFlowStore creates a FlowStore wrapping the given Redis client.
func NewFlowStore(client *redis.Client) *FlowStore {
	return &FlowStore{client: client}
}

func (s *FlowStore) key(id string) string {
	return "regflow:" + id
}

// Save stores a wizard snapshot; Redis expires abandoned flows after ttl.
func (s *FlowStore) Save(ctx context.Context, snapshot ports.FlowSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal flow snapshot: %w", err)
	}
	return s.client.Set(ctx, s.key(snapshot.ID), data, ttl).Err()
}

// Find loads a snapshot; missing or expired flows come back as
// ports.ErrFlowNotFound.
func (s *FlowStore) Find(ctx context.Context, id string) (*ports.FlowSnapshot, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, ports.ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find flow snapshot: %w", err)
	}

	var snapshot ports.FlowSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal flow snapshot: %w", err)
	}
	return &snapshot, nil
}

// Delete removes a completed or abandoned flow.
func (s *FlowStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
