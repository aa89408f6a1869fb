package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forms-api/internal/domain"
	"forms-api/internal/service"
)

// SubmissionHandler expone el flujo público de respuestas y su lectura.
type SubmissionHandler struct {
	logger         *zap.Logger
	formServ       *service.FormService
	submissionServ *service.SubmissionService
}

func NewSubmissionHandler(logger *zap.Logger, formServ *service.FormService, submissionServ *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		logger:         logger,
		formServ:       formServ,
		submissionServ: submissionServ,
	}
}

// GetPublicForm maneja GET /public/forms/:id.
func (h *SubmissionHandler) GetPublicForm(c *gin.Context) {
	form, err := h.formServ.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
			return
		}
		h.logger.Error("get public form failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if form.State != domain.FormStateActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
		return
	}

	questions, err := h.formServ.ListQuestions(c.Request.Context(), form.ID)
	if err != nil {
		h.logger.Error("list public questions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": form, "questions": questions})
}

// CreateSubmission maneja POST /public/forms/:id/submissions.
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req struct {
		Answers []struct {
			QuestionID string `json:"question_id" binding:"required"`
			Text       string `json:"text"`
		} `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submission request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	answers := make([]service.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.AnswerInput{
			QuestionID: a.QuestionID,
			Text:       a.Text,
		})
	}

	submission, err := h.submissionServ.CreateSubmission(c.Request.Context(), service.CreateSubmissionInput{
		FormID:    c.Param("id"),
		ClientKey: c.ClientIP(),
		Answers:   answers,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions, try again later"})
		case errors.Is(err, service.ErrFormNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
		case errors.Is(err, service.ErrFormClosed):
			c.JSON(http.StatusForbidden, gin.H{"error": "form is not accepting submissions"})
		case errors.Is(err, service.ErrUnknownQuestion), errors.Is(err, service.ErrMissingRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("create submission failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save submission"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"submission": submission})
}

// ListSubmissions maneja GET /forms/:id/submissions.
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	submissions, err := h.submissionServ.ListSubmissions(c.Request.Context(), c.Param("id"), claims.OwnerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFormNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
		case errors.Is(err, service.ErrNotFormOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the form owner"})
		default:
			h.logger.Error("list submissions failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}
