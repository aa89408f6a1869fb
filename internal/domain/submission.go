package domain

import "time"

type Submission struct {
	ID        string    `json:"id"`
	FormID    string    `json:"form_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Answer guarda una respuesta individual. QuestionID es una referencia debil:
// la pregunta puede haber sido borrada despues de registrar la respuesta.
type Answer struct {
	ID           string `json:"id"`
	SubmissionID string `json:"submission_id"`
	QuestionID   string `json:"question_id"`
	Text         string `json:"text"`
}

// SummaryItem es un par (etiqueta, respuesta) del resumen de confirmacion.
type SummaryItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
