package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Mailer is the subset of the email client the workers use.
type Mailer interface {
	SendNewMessageEmail(to, recipientName, senderName, subject string) error
	SendPrescriptionEmail(to, patientName, professionalName, filename string, pdf []byte) error
}

func (j *JobService) handleNewMessageTask(ctx context.Context, t *asynq.Task) error {
	var p NewMessagePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal new message payload: %w", err)
	}

	logger := j.logger.With().Str("type", TaskNewMessage).Str("to", p.To).Logger()
	logger.Info().Msg("processing new message email task")

	if err := j.mailer.SendNewMessageEmail(p.To, p.RecipientName, p.SenderName, p.Subject); err != nil {
		logger.Error().Err(err).Msg("failed to send new message email")
		return err
	}

	logger.Info().Msg("sent new message email")
	return nil
}

func (j *JobService) handlePrescriptionTask(ctx context.Context, t *asynq.Task) error {
	var p PrescriptionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal prescription payload: %w", err)
	}

	logger := j.logger.With().
		Str("type", TaskPrescription).
		Str("to", p.To).
		Int("pdf_bytes", len(p.PDF)).
		Logger()
	logger.Info().Msg("processing prescription email task")

	if err := j.mailer.SendPrescriptionEmail(p.To, p.PatientName, p.ProfessionalName, p.Filename, p.PDF); err != nil {
		logger.Error().Err(err).Msg("failed to send prescription email")
		return err
	}

	logger.Info().Msg("sent prescription email")
	return nil
}
