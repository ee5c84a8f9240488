package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"wanderstay/models"
)

const TypeBookingConfirmedEmail = "email:bookingConfirmed"

func NewBookingConfirmedEmailTask(payload models.ConfirmationEmailPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingConfirmedEmail, b), nil
}
