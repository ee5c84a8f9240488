package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"wanderstay/models"
)

// ClaimGate makes return-signal handling idempotent. The first caller to
// claim a (transactionId, prebookId) pair proceeds; every later claim for the
// same pair is a no-op. This is what keeps confirm at most-once even when the
// triggering event fires more than once.
type ClaimGate interface {
	Claim(ctx context.Context, signal models.PaymentReturnSignal, ttl time.Duration) (bool, error)
}

func claimKey(signal models.PaymentReturnSignal) string {
	return fmt.Sprintf("booking:claim:%s:%s", signal.TransactionID, signal.PrebookID)
}

// RedisClaimGate is the production ClaimGate, backed by SETNX.
type RedisClaimGate struct {
	Client *redis.Client
}

func NewRedisClaimGate(client *redis.Client) *RedisClaimGate {
	return &RedisClaimGate{Client: client}
}

func (g *RedisClaimGate) Claim(ctx context.Context, signal models.PaymentReturnSignal, ttl time.Duration) (bool, error) {
	ok, err := g.Client.SetNX(ctx, claimKey(signal), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim return signal: %w", err)
	}
	return ok, nil
}

// MemoryClaimGate is an in-process ClaimGate for tests and local development.
type MemoryClaimGate struct {
	mu      sync.Mutex
	claimed map[string]time.Time
}

func NewMemoryClaimGate() *MemoryClaimGate {
	return &MemoryClaimGate{claimed: make(map[string]time.Time)}
}

func (g *MemoryClaimGate) Claim(ctx context.Context, signal models.PaymentReturnSignal, ttl time.Duration) (bool, error) {
	key := claimKey(signal)
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()
	if expiry, ok := g.claimed[key]; ok && now.Before(expiry) {
		return false, nil
	}
	g.claimed[key] = now.Add(ttl)
	return true, nil
}
