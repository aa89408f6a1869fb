package email

import (
	"context"
	"errors"

	"forms-api/internal/domain"
)

// Sender define la interfaz para envio de correos de confirmacion.
type Sender interface {
	SendConfirmation(ctx context.Context, toEmail string, formTitle string, summaries []domain.SummaryItem) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendConfirmation(_ context.Context, _ string, _ string, _ []domain.SummaryItem) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
