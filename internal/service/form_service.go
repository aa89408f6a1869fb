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
	ErrFormNotFound        = errors.New("form not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrNotFormOwner        = errors.New("not form owner")
	ErrTitleRequired       = errors.New("form title required")
	ErrInvalidFormState    = errors.New("invalid form state")
	ErrInvalidQuestionType = errors.New("invalid question type")
	ErrQuestionTextEmpty   = errors.New("question text required")
)

// FormService coordina reglas de negocio para formularios y sus preguntas.
type FormService struct {
	logger    *zap.Logger
	forms     repository.FormRepository
	questions repository.QuestionRepository
}

func NewFormService(logger *zap.Logger, forms repository.FormRepository, questions repository.QuestionRepository) *FormService {
	return &FormService{
		logger:    logger,
		forms:     forms,
		questions: questions,
	}
}

type CreateFormInput struct {
	OwnerID     string
	Title       string
	Description string
}

func (s *FormService) CreateForm(ctx context.Context, input CreateFormInput) (domain.Form, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Form{}, ErrTitleRequired
	}

	now := time.Now().UTC()
	form := domain.Form{
		ID:          uuid.NewString(),
		OwnerID:     input.OwnerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		State:       domain.FormStateActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.forms.Create(ctx, form); err != nil {
		return domain.Form{}, err
	}
	return form, nil
}

func (s *FormService) GetForm(ctx context.Context, formID string) (domain.Form, error) {
	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Form{}, ErrFormNotFound
		}
		return domain.Form{}, err
	}
	return form, nil
}

// GetOwnedForm resuelve un formulario verificando la propiedad del autor.
func (s *FormService) GetOwnedForm(ctx context.Context, formID, ownerID string) (domain.Form, error) {
	form, err := s.GetForm(ctx, formID)
	if err != nil {
		return domain.Form{}, err
	}
	if form.OwnerID != ownerID {
		return domain.Form{}, ErrNotFormOwner
	}
	return form, nil
}

func (s *FormService) ListForms(ctx context.Context, ownerID string) ([]domain.Form, error) {
	return s.forms.ListByOwnerID(ctx, ownerID)
}

type UpdateFormInput struct {
	Title       *string
	Description *string
	State       *string
}

func (s *FormService) UpdateForm(ctx context.Context, formID, ownerID string, input UpdateFormInput) (domain.Form, error) {
	form, err := s.GetOwnedForm(ctx, formID, ownerID)
	if err != nil {
		return domain.Form{}, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return domain.Form{}, ErrTitleRequired
		}
		form.Title = title
	}
	if input.Description != nil {
		form.Description = strings.TrimSpace(*input.Description)
	}
	if input.State != nil {
		if !domain.IsValidFormState(*input.State) {
			return domain.Form{}, ErrInvalidFormState
		}
		form.State = *input.State
	}
	form.UpdatedAt = time.Now().UTC()

	if err := s.forms.Update(ctx, form); err != nil {
		return domain.Form{}, err
	}
	return form, nil
}

func (s *FormService) DeleteForm(ctx context.Context, formID, ownerID string) error {
	if _, err := s.GetOwnedForm(ctx, formID, ownerID); err != nil {
		return err
	}
	return s.forms.Delete(ctx, formID)
}

type AddQuestionInput struct {
	Type          string
	Text          string
	IsRequired    bool
	ExtraSettings map[string]any
}

func (s *FormService) AddQuestion(ctx context.Context, formID, ownerID string, input AddQuestionInput) (domain.Question, error) {
	if _, err := s.GetOwnedForm(ctx, formID, ownerID); err != nil {
		return domain.Question{}, err
	}
	if !domain.IsValidQuestionType(input.Type) {
		return domain.Question{}, ErrInvalidQuestionType
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return domain.Question{}, ErrQuestionTextEmpty
	}

	existing, err := s.questions.ListByFormID(ctx, formID)
	if err != nil {
		return domain.Question{}, err
	}

	question := domain.Question{
		ID:            uuid.NewString(),
		FormID:        formID,
		Order:         len(existing),
		Type:          input.Type,
		Text:          text,
		IsRequired:    input.IsRequired,
		ExtraSettings: input.ExtraSettings,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.questions.Create(ctx, question); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// DeleteQuestion borra una pregunta aunque existan respuestas que la
// referencian; esas respuestas quedan como referencias colgantes validas.
func (s *FormService) DeleteQuestion(ctx context.Context, formID, ownerID, questionID string) error {
	if _, err := s.GetOwnedForm(ctx, formID, ownerID); err != nil {
		return err
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuestionNotFound
		}
		return err
	}
	if question.FormID != formID {
		return ErrQuestionNotFound
	}

	return s.questions.Delete(ctx, questionID)
}

func (s *FormService) ListQuestions(ctx context.Context, formID string) ([]domain.Question, error) {
	return s.questions.ListByFormID(ctx, formID)
}
