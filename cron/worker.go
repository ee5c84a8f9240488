package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"wanderstay/config"
	"wanderstay/models"
	"wanderstay/services/notification"
	"wanderstay/services/tasks"
	"wanderstay/utils"
)

// InitEmailWorker runs the confirmation email worker in background. The
// returned stop function shuts the worker down and ends its Redis monitor;
// main calls it during graceful shutdown.
func InitEmailWorker(sender notification.Sender) (stop func()) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmedEmail, handleConfirmationEmailTask(sender))

	ctx, cancel := context.WithCancel(context.Background())
	go monitorRedisConnection(ctx)

	// Start async worker with retry logic
	go func() {
		log.Println("[EmailWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[EmailWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[EmailWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	return func() {
		cancel()
		srv.Shutdown()
	}
}

func handleConfirmationEmailTask(sender notification.Sender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ConfirmationEmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid confirmation email payload", zap.Error(err))
			return err
		}

		if err := sender.SendBookingConfirmed(ctx, p); err != nil {
			// A failed email never reaches the booking outcome; asynq retries
			// delivery on its own schedule.
			logger.Warn("confirmation email delivery failed",
				zap.String("bookingId", p.BookingID),
				zap.String("to", p.GuestEmail),
				zap.Error(err),
			)
			return err
		}

		logger.Info("confirmation email sent",
			zap.String("bookingId", p.BookingID),
			zap.String("to", p.GuestEmail),
		)
		return nil
	}
}

// monitorRedisConnection pings the queue's Redis periodically to detect
// failures at runtime. It stops, and closes its client, when ctx is canceled.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := client.Ping(pingCtx).Err(); err != nil {
				log.Printf("[EmailWorker] Redis connection lost: %v", err)
			}
			cancel()
		}
	}
}
