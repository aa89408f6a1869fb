package domain

import "time"

// Estados posibles de un formulario.
const (
	FormStateActive   = "active"
	FormStateClosed   = "closed"
	FormStateArchived = "archived"
)

type Form struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsValidFormState valida estados conocidos de formulario.
func IsValidFormState(state string) bool {
	switch state {
	case FormStateActive, FormStateClosed, FormStateArchived:
		return true
	}
	return false
}
