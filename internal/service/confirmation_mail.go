package service

import (
	"context"
	"net/mail"

	"go.uber.org/zap"

	"forms-api/internal/domain"
	"forms-api/internal/email"
)

// ConfirmationMailService valida el destinatario y entrega el correo de
// confirmacion. Nunca propaga fallos: un correo perdido no debe afectar al
// envio ya persistido.
type ConfirmationMailService struct {
	logger *zap.Logger
	sender email.Sender
}

func NewConfirmationMailService(logger *zap.Logger, sender email.Sender) *ConfirmationMailService {
	return &ConfirmationMailService{
		logger: logger,
		sender: sender,
	}
}

func (s *ConfirmationMailService) Send(ctx context.Context, form domain.Form, submission domain.Submission, recipient string, summaries []domain.SummaryItem) {
	if !isValidEmailAddress(recipient) {
		s.logger.Debug("skipping confirmation mail, invalid recipient address",
			zap.String("form_id", form.ID),
			zap.String("submission_id", submission.ID),
			zap.String("email", recipient),
		)
		return
	}

	if err := s.sender.SendConfirmation(ctx, recipient, form.Title, summaries); err != nil {
		s.logger.Error("failed to send confirmation email for submission",
			zap.String("form_id", form.ID),
			zap.String("submission_id", submission.ID),
			zap.Error(err),
		)
	}
}

// isValidEmailAddress acepta solo direcciones simples, sin display name.
func isValidEmailAddress(address string) bool {
	parsed, err := mail.ParseAddress(address)
	return err == nil && parsed.Address == address
}
