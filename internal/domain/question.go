package domain

import "time"

// Tipos de pregunta soportados. Solo short, long y email producen texto libre;
// el resto guarda valores estructurados que dependen de sus opciones.
const (
	QuestionTypeShort          = "short"
	QuestionTypeLong           = "long"
	QuestionTypeEmail          = "email"
	QuestionTypeMultiple       = "multiple"
	QuestionTypeMultipleUnique = "multiple_unique"
	QuestionTypeDropdown       = "dropdown"
	QuestionTypeDate           = "date"
	QuestionTypeTime           = "time"
	QuestionTypeLinearScale    = "linearscale"
	QuestionTypeFile           = "file"
)

// Claves reconocidas dentro de extra_settings.
const (
	ExtraSettingValidationType = "validationType"
	ValidationTypeEmail        = "email"
)

type Question struct {
	ID            string         `json:"id"`
	FormID        string         `json:"form_id"`
	Order         int            `json:"order"`
	Type          string         `json:"type"`
	Text          string         `json:"text"`
	IsRequired    bool           `json:"is_required"`
	ExtraSettings map[string]any `json:"extra_settings,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// IsValidQuestionType valida contra el catalogo cerrado de tipos.
func IsValidQuestionType(questionType string) bool {
	switch questionType {
	case QuestionTypeShort, QuestionTypeLong, QuestionTypeEmail,
		QuestionTypeMultiple, QuestionTypeMultipleUnique, QuestionTypeDropdown,
		QuestionTypeDate, QuestionTypeTime, QuestionTypeLinearScale, QuestionTypeFile:
		return true
	}
	return false
}
