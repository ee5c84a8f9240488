package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus is the latest dependency snapshot, one flag per role the
// booking flow depends on: the checkpoint cache, the claim cache and the
// confirmed-bookings records store.
type HealthStatus struct {
	Checkpoints bool      `json:"checkpoints"`
	Claims      bool      `json:"claims"`
	Records     bool      `json:"records"`
	CheckedAt   time.Time `json:"checkedAt"`
}

// Degraded reports whether any dependency failed its last probe. Checkpoints
// and claims down means holds cannot survive the payment redirect; records
// down only loses booking lookups.
func (s HealthStatus) Degraded() bool {
	return !s.Checkpoints || !s.Claims || !s.Records
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored snapshot. A zero CheckedAt means
// no probe cycle has completed yet.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StoreHealthStatus replaces the current snapshot.
func StoreHealthStatus(status HealthStatus) {
	healthMu.Lock()
	currentHealth = status
	healthMu.Unlock()
}

// StartHealthMonitor probes the checkpoint cache, the claim cache and the
// records store once a minute and stores the snapshot for the health handler.
func StartHealthMonitor(checkpoints, claims *redis.Client, records *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			status := HealthStatus{
				Checkpoints: checkpoints.Ping(ctx).Err() == nil,
				Claims:      claims.Ping(ctx).Err() == nil,
				Records:     records.Ping(ctx, nil) == nil,
				CheckedAt:   time.Now(),
			}
			cancel()

			StoreHealthStatus(status)
			if status.Degraded() {
				GetLogger().Warn("booking dependencies degraded",
					zap.Bool("checkpoints", status.Checkpoints),
					zap.Bool("claims", status.Claims),
					zap.Bool("records", status.Records),
				)
			}
		}
	}()
}
