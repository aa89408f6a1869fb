package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forms-api/internal/service"
)

// FormHandler expone el CRUD de formularios y preguntas del dueño.
type FormHandler struct {
	logger   *zap.Logger
	formServ *service.FormService
}

func NewFormHandler(logger *zap.Logger, formServ *service.FormService) *FormHandler {
	return &FormHandler{
		logger:   logger,
		formServ: formServ,
	}
}

// CreateForm maneja POST /forms.
func (h *FormHandler) CreateForm(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create form request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	form, err := h.formServ.CreateForm(c.Request.Context(), service.CreateFormInput{
		OwnerID:     claims.OwnerID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		h.logger.Error("create form failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create form"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"form": form})
}

// ListForms maneja GET /forms.
func (h *FormHandler) ListForms(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	forms, err := h.formServ.ListForms(c.Request.Context(), claims.OwnerID)
	if err != nil {
		h.logger.Error("list forms failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list forms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"forms": forms})
}

// GetForm maneja GET /forms/:id.
func (h *FormHandler) GetForm(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	form, err := h.formServ.GetOwnedForm(c.Request.Context(), c.Param("id"), claims.OwnerID)
	if err != nil {
		h.respondFormError(c, err, "get form failed")
		return
	}

	questions, err := h.formServ.ListQuestions(c.Request.Context(), form.ID)
	if err != nil {
		h.logger.Error("list questions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load questions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": form, "questions": questions})
}

// UpdateForm maneja PATCH /forms/:id.
func (h *FormHandler) UpdateForm(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		State       *string `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	form, err := h.formServ.UpdateForm(c.Request.Context(), c.Param("id"), claims.OwnerID, service.UpdateFormInput{
		Title:       req.Title,
		Description: req.Description,
		State:       req.State,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrInvalidFormState):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.respondFormError(c, err, "update form failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": form})
}

// DeleteForm maneja DELETE /forms/:id.
func (h *FormHandler) DeleteForm(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.formServ.DeleteForm(c.Request.Context(), c.Param("id"), claims.OwnerID); err != nil {
		h.respondFormError(c, err, "delete form failed")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddQuestion maneja POST /forms/:id/questions.
func (h *FormHandler) AddQuestion(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Type          string         `json:"type" binding:"required"`
		Text          string         `json:"text" binding:"required"`
		IsRequired    bool           `json:"is_required"`
		ExtraSettings map[string]any `json:"extra_settings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add question request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	question, err := h.formServ.AddQuestion(c.Request.Context(), c.Param("id"), claims.OwnerID, service.AddQuestionInput{
		Type:          req.Type,
		Text:          req.Text,
		IsRequired:    req.IsRequired,
		ExtraSettings: req.ExtraSettings,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuestionType), errors.Is(err, service.ErrQuestionTextEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.respondFormError(c, err, "add question failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"question": question})
}

// DeleteQuestion maneja DELETE /forms/:id/questions/:questionId.
func (h *FormHandler) DeleteQuestion(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	err := h.formServ.DeleteQuestion(c.Request.Context(), c.Param("id"), claims.OwnerID, c.Param("questionId"))
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		h.respondFormError(c, err, "delete question failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FormHandler) respondFormError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
	case errors.Is(err, service.ErrNotFormOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the form owner"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
