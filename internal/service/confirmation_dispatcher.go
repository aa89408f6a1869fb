package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"forms-api/internal/domain"
	"forms-api/internal/repository"
)

// ConfirmationMailer entrega el correo de confirmacion ya resuelto.
type ConfirmationMailer interface {
	Send(ctx context.Context, form domain.Form, submission domain.Submission, recipient string, summaries []domain.SummaryItem)
}

// ConfirmationDispatcher resuelve el email del encuestado entre las
// respuestas de un envio y dispara el correo de confirmacion.
type ConfirmationDispatcher struct {
	logger    *zap.Logger
	answers   repository.AnswerRepository
	questions repository.QuestionRepository
	mailer    ConfirmationMailer
}

func NewConfirmationDispatcher(
	logger *zap.Logger,
	answers repository.AnswerRepository,
	questions repository.QuestionRepository,
	mailer ConfirmationMailer,
) *ConfirmationDispatcher {
	return &ConfirmationDispatcher{
		logger:    logger,
		answers:   answers,
		questions: questions,
		mailer:    mailer,
	}
}

// DispatchConfirmation procesa un envio completado. Solo el fallo de lectura
// de respuestas se propaga; preguntas borradas se saltan con warning y la
// ausencia de email termina en silencio.
func (d *ConfirmationDispatcher) DispatchConfirmation(ctx context.Context, form domain.Form, submission domain.Submission) error {
	answers, err := d.answers.ListBySubmissionID(ctx, submission.ID)
	if err != nil {
		return fmt.Errorf("list answers for submission %s: %w", submission.ID, err)
	}

	var emailAddress string
	var summaries []domain.SummaryItem

	for _, answer := range answers {
		question, err := d.questions.GetByID(ctx, answer.QuestionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				d.logger.Warn("question missing while preparing confirmation mail",
					zap.String("form_id", form.ID),
					zap.String("submission_id", submission.ID),
					zap.String("question_id", answer.QuestionID),
				)
			} else {
				d.logger.Warn("question lookup failed while preparing confirmation mail",
					zap.String("form_id", form.ID),
					zap.String("submission_id", submission.ID),
					zap.String("question_id", answer.QuestionID),
					zap.Error(err),
				)
			}
			continue
		}

		answerText := strings.TrimSpace(answer.Text)
		if answerText == "" {
			continue
		}

		// Primer candidato no vacio gana; un envio tiene una sola identidad.
		if emailAddress == "" && IsIdentityEmailField(question.Type, question.Text, question.ExtraSettings) {
			emailAddress = answerText
		}

		if IsSummarizable(question.Type) {
			summaries = append(summaries, domain.SummaryItem{
				Question: question.Text,
				Answer:   answerText,
			})
		}
	}

	if emailAddress == "" {
		return nil
	}

	d.mailer.Send(ctx, form, submission, emailAddress, summaries)
	return nil
}
