package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

// OTPStore persists OTP challenges with a server-side TTL.
// Key format: otp:<challenge_id>
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore creates an OTPStore wrapping the given Redis client.
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

func (s *OTPStore) key(otpID string) string {
	return "otp:" + otpID
}

// Save stores a challenge under its handle; Redis expires it after ttl.
func (s *OTPStore) Save(ctx context.Context, challenge domain.OTPChallenge, ttl time.Duration) error {
	data, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("marshal otp challenge: %w", err)
	}
	return s.client.Set(ctx, s.key(challenge.ID), data, ttl).Err()
}

// Find loads a challenge. Missing or expired handles come back as
// domain.ErrOTPNotFound.
func (s *OTPStore) Find(ctx context.Context, otpID string) (*domain.OTPChallenge, error) {
	val, err := s.client.Get(ctx, s.key(otpID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find otp challenge: %w", err)
	}

	var challenge domain.OTPChallenge
	if err := json.Unmarshal([]byte(val), &challenge); err != nil {
		return nil, fmt.Errorf("unmarshal otp challenge: %w", err)
	}
	return &challenge, nil
}

// Delete consumes a challenge so the code cannot be redeemed twice.
func (s *OTPStore) Delete(ctx context.Context, otpID string) error {
	return s.client.Del(ctx, s.key(otpID)).Err()
}
