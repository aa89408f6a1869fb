package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"forms-api/internal/domain"
)

type mockSubmissionRepo struct {
	byID      map[string]domain.Submission
	createErr error
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{byID: make(map[string]domain.Submission)}
}

func (m *mockSubmissionRepo) Create(_ context.Context, submission domain.Submission) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.byID[submission.ID] = submission
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (domain.Submission, error) {
	submission, ok := m.byID[id]
	if !ok {
		return domain.Submission{}, pgx.ErrNoRows
	}
	return submission, nil
}

func (m *mockSubmissionRepo) ListByFormID(_ context.Context, formID string) ([]domain.Submission, error) {
	var submissions []domain.Submission
	for _, s := range m.byID {
		if s.FormID == formID {
			submissions = append(submissions, s)
		}
	}
	return submissions, nil
}

type mockDispatcher struct {
	calls int
	err   error
}

func (m *mockDispatcher) DispatchConfirmation(_ context.Context, _ domain.Form, _ domain.Submission) error {
	m.calls++
	return m.err
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(string) bool { return true }

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func activeFormFixture() (*mockFormRepo, *mockQuestionRepo) {
	forms := newMockFormRepo()
	forms.byID["f1"] = domain.Form{ID: "f1", OwnerID: "o1", Title: "Feedback form", State: domain.FormStateActive}
	questions := newMockQuestionRepo()
	questions.byID["q1"] = domain.Question{ID: "q1", FormID: "f1", Type: domain.QuestionTypeEmail, Text: "Email address", IsRequired: true}
	questions.byID["q2"] = domain.Question{ID: "q2", FormID: "f1", Type: domain.QuestionTypeShort, Text: "Comment"}
	return forms, questions
}

func TestSubmissionServiceCreateAndDispatch(t *testing.T) {
	forms, questions := activeFormFixture()
	submissions := newMockSubmissionRepo()
	answers := &mockAnswerRepo{}
	dispatcher := &mockDispatcher{}
	svc := NewSubmissionService(zap.NewNop(), forms, questions, submissions, answers, dispatcher, allowAllLimiter{})

	submission, err := svc.CreateSubmission(context.Background(), CreateSubmissionInput{
		FormID:    "f1",
		ClientKey: "10.0.0.1",
		Answers: []AnswerInput{
			{QuestionID: "q1", Text: " user@example.com "},
			{QuestionID: "q2", Text: "Looks great!"},
		},
	})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	if submission.FormID != "f1" {
		t.Fatalf("unexpected submission: %+v", submission)
	}
	if _, ok := submissions.byID[submission.ID]; !ok {
		t.Fatalf("expected submission persisted")
	}
	if len(answers.created) != 2 {
		t.Fatalf("expected both answers persisted, got %+v", answers.created)
	}
	if answers.created[0].Text != "user@example.com" {
		t.Fatalf("expected trimmed answer text, got %q", answers.created[0].Text)
	}
	if dispatcher.calls != 1 {
		t.Fatalf("expected one dispatch, got %d", dispatcher.calls)
	}
}

func TestSubmissionServiceValidation(t *testing.T) {
	forms, questions := activeFormFixture()
	svc := NewSubmissionService(zap.NewNop(), forms, questions, newMockSubmissionRepo(), &mockAnswerRepo{}, &mockDispatcher{}, allowAllLimiter{})

	if _, err := svc.CreateSubmission(context.Background(), CreateSubmissionInput{FormID: "missing"}); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}

	if _, err := svc.CreateSubmission(context.Background(), CreateSubmissionInput{
		FormID:  "f1",
		Answers: []AnswerInput{{QuestionID: "ghost", Text: "hi"}},
	}); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}

	// q1 es obligatoria; una respuesta en blanco no cuenta.
	if _, err := svc.CreateSubmission(context.Background(), CreateSubmissionInput{
		FormID:  "f1",
		Answers: []AnswerInput{{QuestionID: "q1", Text: "   "}},
	}); !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("expected ErrMissingRequired, got %v", err)
	}
}

func TestSubmissionServiceClosedForm(t *testing.T) {
	forms, questions := activeFormFixture()
	form := forms.byID["f1"]
	form.State = domain.FormStateClosed
	forms.byID["f1"] = form
	svc := NewSubmissionService(zap.NewNop(), forms, questions, newMockSubmissionRepo(), &mockAnswerRepo{}, &mockDispatcher{}, allowAllLimiter{})

	_, err := svc.CreateSubmission(context.Background(), CreateSubmissionInput{
		FormID:  "f1",
		Answers: []AnswerInput{{QuestionID: "q1", Text: "user@example.com"}},
	})
	if !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}
}

func TestSubmissionServiceRateLimited(t *testing.T) {
	forms, questions := activeFormFixture()
	dispatcher := &mockDispatcher{}
	svc := NewSubmissionService(zap.NewNop(), forms, questions, newMockSubmissionRepo(), &mockAnswerRepo{}, dispatcher, denyAllLimiter{})

	_, err := svc.CreateSubmission(context.Background(), CreateSubmissionInput{
		FormID:    "f1",
		ClientKey: "10.0.0.1",
		Answers:   []AnswerInput{{QuestionID: "q1", Text: "user@example.com"}},
	})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if dispatcher.calls != 0 {
		t.Fatalf("expected no dispatch when rate limited")
	}
}

func TestSubmissionServiceSurvivesDispatchFailure(t *testing.T) {
	forms, questions := activeFormFixture()
	submissions := newMockSubmissionRepo()
	dispatcher := &mockDispatcher{err: errors.New("answer store down")}
	core, logs := observer.New(zap.ErrorLevel)
	svc := NewSubmissionService(zap.New(core), forms, questions, submissions, &mockAnswerRepo{}, dispatcher, allowAllLimiter{})

	submission, err := svc.CreateSubmission(context.Background(), CreateSubmissionInput{
		FormID:  "f1",
		Answers: []AnswerInput{{QuestionID: "q1", Text: "user@example.com"}},
	})
	if err != nil {
		t.Fatalf("submission must succeed even when dispatch fails: %v", err)
	}
	if _, ok := submissions.byID[submission.ID]; !ok {
		t.Fatalf("expected submission persisted")
	}
	if logs.FilterMessage("confirmation dispatch failed").Len() != 1 {
		t.Fatalf("expected dispatch failure logged")
	}
}

func TestSubmissionServiceNoDeduplication(t *testing.T) {
	forms, questions := activeFormFixture()
	dispatcher := &mockDispatcher{}
	svc := NewSubmissionService(zap.NewNop(), forms, questions, newMockSubmissionRepo(), &mockAnswerRepo{}, dispatcher, allowAllLimiter{})

	input := CreateSubmissionInput{
		FormID:  "f1",
		Answers: []AnswerInput{{QuestionID: "q1", Text: "user@example.com"}},
	}
	if _, err := svc.CreateSubmission(context.Background(), input); err != nil {
		t.Fatalf("first submission: %v", err)
	}
	if _, err := svc.CreateSubmission(context.Background(), input); err != nil {
		t.Fatalf("second submission: %v", err)
	}
	// Dos envios identicos producen dos confirmaciones; no hay deduplicacion.
	if dispatcher.calls != 2 {
		t.Fatalf("expected two dispatches, got %d", dispatcher.calls)
	}
}

func TestSubmissionServiceListSubmissions(t *testing.T) {
	forms, questions := activeFormFixture()
	submissions := newMockSubmissionRepo()
	submissions.byID["s1"] = domain.Submission{ID: "s1", FormID: "f1"}
	svc := NewSubmissionService(zap.NewNop(), forms, questions, submissions, &mockAnswerRepo{}, &mockDispatcher{}, allowAllLimiter{})

	list, err := svc.ListSubmissions(context.Background(), "f1", "o1")
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one submission, got %d", len(list))
	}

	if _, err := svc.ListSubmissions(context.Background(), "f1", "intruder"); !errors.Is(err, ErrNotFormOwner) {
		t.Fatalf("expected ErrNotFormOwner, got %v", err)
	}
}
