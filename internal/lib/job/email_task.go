package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskNewMessage   = "email:new_message"
	TaskPrescription = "email:prescription"
)

type NewMessagePayload struct {
	To            string `json:"to"`
	RecipientName string `json:"recipient_name"`
	SenderName    string `json:"sender_name"`
	Subject       string `json:"subject"`
}

// PrescriptionPayload carries the rendered PDF so the worker never needs
// database access.
type PrescriptionPayload struct {
	To               string `json:"to"`
	PatientName      string `json:"patient_name"`
	ProfessionalName string `json:"professional_name"`
	Filename         string `json:"filename"`
	PDF              []byte `json:"pdf"`
}

func NewNewMessageTask(p NewMessagePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskNewMessage,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

func NewPrescriptionTask(p PrescriptionPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskPrescription,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue("critical"),
		asynq.Timeout(time.Minute),
	), nil
}
