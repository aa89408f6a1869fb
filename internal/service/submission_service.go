package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"forms-api/internal/domain"
	"forms-api/internal/repository"
)

var (
	ErrFormClosed      = errors.New("form not accepting submissions")
	ErrUnknownQuestion = errors.New("answer references unknown question")
	ErrMissingRequired = errors.New("required question not answered")
	ErrRateLimited     = errors.New("rate limited")
)

// ConfirmationDispatch dispara el pipeline de confirmacion tras persistir
// un envio. Sus fallos nunca afectan al envio ya guardado.
type ConfirmationDispatch interface {
	DispatchConfirmation(ctx context.Context, form domain.Form, submission domain.Submission) error
}

// SubmissionService valida y persiste envios de encuestados.
type SubmissionService struct {
	logger      *zap.Logger
	forms       repository.FormRepository
	questions   repository.QuestionRepository
	submissions repository.SubmissionRepository
	answers     repository.AnswerRepository
	dispatcher  ConfirmationDispatch
	limiter     SubmitRateLimiter
}

func NewSubmissionService(
	logger *zap.Logger,
	forms repository.FormRepository,
	questions repository.QuestionRepository,
	submissions repository.SubmissionRepository,
	answers repository.AnswerRepository,
	dispatcher ConfirmationDispatch,
	limiter SubmitRateLimiter,
) *SubmissionService {
	if limiter == nil {
		limiter = NewSubmitRateLimiter(time.Minute, 10)
	}
	return &SubmissionService{
		logger:      logger,
		forms:       forms,
		questions:   questions,
		submissions: submissions,
		answers:     answers,
		dispatcher:  dispatcher,
		limiter:     limiter,
	}
}

type AnswerInput struct {
	QuestionID string
	Text       string
}

type CreateSubmissionInput struct {
	FormID    string
	ClientKey string
	Answers   []AnswerInput
}

func (s *SubmissionService) CreateSubmission(ctx context.Context, input CreateSubmissionInput) (domain.Submission, error) {
	if !s.limiter.Allow(input.ClientKey + "|" + input.FormID) {
		return domain.Submission{}, ErrRateLimited
	}

	form, err := s.forms.GetByID(ctx, input.FormID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Submission{}, ErrFormNotFound
		}
		return domain.Submission{}, err
	}
	if form.State != domain.FormStateActive {
		return domain.Submission{}, ErrFormClosed
	}

	questions, err := s.questions.ListByFormID(ctx, input.FormID)
	if err != nil {
		return domain.Submission{}, err
	}
	questionsByID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		questionsByID[q.ID] = q
	}

	answeredQuestions := make(map[string]bool, len(input.Answers))
	submission := domain.Submission{
		ID:        uuid.NewString(),
		FormID:    form.ID,
		CreatedAt: time.Now().UTC(),
	}

	var answers []domain.Answer
	for _, answerInput := range input.Answers {
		if _, ok := questionsByID[answerInput.QuestionID]; !ok {
			return domain.Submission{}, ErrUnknownQuestion
		}
		text := strings.TrimSpace(answerInput.Text)
		if text != "" {
			answeredQuestions[answerInput.QuestionID] = true
		}
		answers = append(answers, domain.Answer{
			ID:           uuid.NewString(),
			SubmissionID: submission.ID,
			QuestionID:   answerInput.QuestionID,
			Text:         text,
		})
	}

	for _, q := range questions {
		if q.IsRequired && !answeredQuestions[q.ID] {
			return domain.Submission{}, ErrMissingRequired
		}
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		return domain.Submission{}, err
	}
	if err := s.answers.CreateBatch(ctx, answers); err != nil {
		return domain.Submission{}, err
	}

	// El envio ya persistio: un fallo del pipeline de confirmacion solo
	// se registra, nunca revierte ni reintenta el envio.
	if s.dispatcher != nil {
		if err := s.dispatcher.DispatchConfirmation(ctx, form, submission); err != nil {
			s.logger.Error("confirmation dispatch failed",
				zap.String("form_id", form.ID),
				zap.String("submission_id", submission.ID),
				zap.Error(err),
			)
		}
	}

	return submission, nil
}

// ListSubmissions devuelve los envios de un formulario para su autor.
func (s *SubmissionService) ListSubmissions(ctx context.Context, formID, ownerID string) ([]domain.Submission, error) {
	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	if form.OwnerID != ownerID {
		return nil, ErrNotFormOwner
	}
	return s.submissions.ListByFormID(ctx, formID)
}
