package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"forms-api/internal/domain"
	"forms-api/internal/service"
)

type mockFormRepo struct {
	byID map[string]domain.Form
}

func newMockFormRepo(forms ...domain.Form) *mockFormRepo {
	repo := &mockFormRepo{byID: make(map[string]domain.Form)}
	for _, f := range forms {
		repo.byID[f.ID] = f
	}
	return repo
}

func (m *mockFormRepo) Create(_ context.Context, form domain.Form) error {
	m.byID[form.ID] = form
	return nil
}

func (m *mockFormRepo) GetByID(_ context.Context, id string) (domain.Form, error) {
	form, ok := m.byID[id]
	if !ok {
		return domain.Form{}, pgx.ErrNoRows
	}
	return form, nil
}

func (m *mockFormRepo) ListByOwnerID(_ context.Context, ownerID string) ([]domain.Form, error) {
	var forms []domain.Form
	for _, f := range m.byID {
		if f.OwnerID == ownerID {
			forms = append(forms, f)
		}
	}
	return forms, nil
}

func (m *mockFormRepo) Update(_ context.Context, form domain.Form) error {
	if _, ok := m.byID[form.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[form.ID] = form
	return nil
}

func (m *mockFormRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type mockQuestionRepo struct {
	byID map[string]domain.Question
}

func newMockQuestionRepo(questions ...domain.Question) *mockQuestionRepo {
	repo := &mockQuestionRepo{byID: make(map[string]domain.Question)}
	for _, q := range questions {
		repo.byID[q.ID] = q
	}
	return repo
}

func (m *mockQuestionRepo) Create(_ context.Context, question domain.Question) error {
	m.byID[question.ID] = question
	return nil
}

func (m *mockQuestionRepo) GetByID(_ context.Context, id string) (domain.Question, error) {
	question, ok := m.byID[id]
	if !ok {
		return domain.Question{}, pgx.ErrNoRows
	}
	return question, nil
}

func (m *mockQuestionRepo) ListByFormID(_ context.Context, formID string) ([]domain.Question, error) {
	var questions []domain.Question
	for _, q := range m.byID {
		if q.FormID == formID {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (m *mockQuestionRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

// authAs simula un token valido sin pasar por el middleware JWT.
func authAs(ownerID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(authClaimsKey, service.Claims{OwnerID: ownerID})
	}
}

func setupFormRouter(formSvc *service.FormService, ownerID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewFormHandler(zap.NewNop(), formSvc)
	forms := r.Group("/forms", authAs(ownerID))
	forms.POST("", h.CreateForm)
	forms.GET("", h.ListForms)
	forms.GET("/:id", h.GetForm)
	forms.PATCH("/:id", h.UpdateForm)
	forms.DELETE("/:id", h.DeleteForm)
	forms.POST("/:id/questions", h.AddQuestion)
	forms.DELETE("/:id/questions/:questionId", h.DeleteQuestion)
	return r
}

func ownedFormFixture() domain.Form {
	now := time.Now().UTC()
	return domain.Form{
		ID:        "f1",
		OwnerID:   "o1",
		Title:     "Event signup",
		State:     domain.FormStateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestFormHandlerCreateForm_Success(t *testing.T) {
	formRepo := newMockFormRepo()
	formSvc := service.NewFormService(zap.NewNop(), formRepo, newMockQuestionRepo())
	r := setupFormRouter(formSvc, "o1")

	rec := performRequest(r, http.MethodPost, "/forms", map[string]string{
		"title":       "Event signup",
		"description": "Sign up for the event",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if len(formRepo.byID) != 1 {
		t.Fatalf("expected form to be persisted")
	}
	for _, f := range formRepo.byID {
		if f.OwnerID != "o1" {
			t.Fatalf("expected owner o1, got %q", f.OwnerID)
		}
		if f.State != domain.FormStateActive {
			t.Fatalf("expected new form to be active, got %q", f.State)
		}
	}
}

func TestFormHandlerCreateForm_MissingTitle(t *testing.T) {
	formSvc := service.NewFormService(zap.NewNop(), newMockFormRepo(), newMockQuestionRepo())
	r := setupFormRouter(formSvc, "o1")

	rec := performRequest(r, http.MethodPost, "/forms", map[string]string{
		"description": "no title",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestFormHandlerGetForm_NotOwner(t *testing.T) {
	formSvc := service.NewFormService(zap.NewNop(), newMockFormRepo(ownedFormFixture()), newMockQuestionRepo())
	r := setupFormRouter(formSvc, "o2")

	rec := performRequest(r, http.MethodGet, "/forms/f1", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestFormHandlerGetForm_NotFound(t *testing.T) {
	formSvc := service.NewFormService(zap.NewNop(), newMockFormRepo(), newMockQuestionRepo())
	r := setupFormRouter(formSvc, "o1")

	rec := performRequest(r, http.MethodGet, "/forms/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestFormHandlerUpdateForm_CloseForm(t *testing.T) {
	formRepo := newMockFormRepo(ownedFormFixture())
	formSvc := service.NewFormService(zap.NewNop(), formRepo, newMockQuestionRepo())
	r := setupFormRouter(formSvc, "o1")

	rec := performRequest(r, http.MethodPatch, "/forms/f1", map[string]string{
		"state": domain.FormStateClosed,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if formRepo.byID["f1"].State != domain.FormStateClosed {
		t.Fatalf("expected form to be closed")
	}
}

func TestFormHandlerUpdateForm_InvalidState(t *testing.T) {
	formSvc := service.NewFormService(zap.NewNop(), newMockFormRepo(ownedFormFixture()), newMockQuestionRepo())
	r := setupFormRouter(formSvc, "o1")

	rec := performRequest(r, http.MethodPatch, "/forms/f1", map[string]string{
		"state": "paused",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestFormHandlerDeleteForm_Success(t *testing.T) {
	formRepo := newMockFormRepo(ownedFormFixture())
	formSvc := service.NewFormService(zap.NewNop(), formRepo, newMockQuestionRepo())
	r := setupFormRouter(formSvc, "o1")

	rec := performRequest(r, http.MethodDelete, "/forms/f1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if len(formRepo.byID) != 0 {
		t.Fatalf("expected form to be deleted")
	}
}

func TestFormHandlerAddQuestion_Success(t *testing.T) {
	questionRepo := newMockQuestionRepo()
	formSvc := service.NewFormService(zap.NewNop(), newMockFormRepo(ownedFormFixture()), questionRepo)
	r := setupFormRouter(formSvc, "o1")

	rec := performRequest(r, http.MethodPost, "/forms/f1/questions", map[string]any{
		"type": domain.QuestionTypeShort,
		"text": "Your email",
		"extra_settings": map[string]any{
			"validationType": "email",
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if len(questionRepo.byID) != 1 {
		t.Fatalf("expected question to be persisted")
	}
}

func TestFormHandlerAddQuestion_InvalidType(t *testing.T) {
	formSvc := service.NewFormService(zap.NewNop(), newMockFormRepo(ownedFormFixture()), newMockQuestionRepo())
	r := setupFormRouter(formSvc, "o1")

	rec := performRequest(r, http.MethodPost, "/forms/f1/questions", map[string]string{
		"type": "checkbox",
		"text": "Pick one",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestFormHandlerDeleteQuestion_ForeignForm(t *testing.T) {
	other := domain.Form{ID: "f2", OwnerID: "o1", Title: "Other", State: domain.FormStateActive}
	questionRepo := newMockQuestionRepo(domain.Question{ID: "q1", FormID: "f2", Type: domain.QuestionTypeShort, Text: "Name"})
	formSvc := service.NewFormService(zap.NewNop(), newMockFormRepo(ownedFormFixture(), other), questionRepo)
	r := setupFormRouter(formSvc, "o1")

	rec := performRequest(r, http.MethodDelete, "/forms/f1/questions/q1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if len(questionRepo.byID) != 1 {
		t.Fatalf("expected question to remain")
	}
}
