package notification

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"wanderstay/models"
	"wanderstay/services/tasks"
)

// AsynqDispatcher enqueues confirmation emails onto the notification queue.
type AsynqDispatcher struct {
	Client *asynq.Client
}

func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{Client: client}
}

func (d *AsynqDispatcher) DispatchBookingConfirmed(ctx context.Context, payload models.ConfirmationEmailPayload) error {
	task, err := tasks.NewBookingConfirmedEmailTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build confirmation email task: %w", err)
	}
	if _, err := d.Client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue confirmation email: %w", err)
	}
	return nil
}
