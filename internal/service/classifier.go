package service

import (
	"strings"

	"forms-api/internal/domain"
)

// Tokens que marcan una etiqueta como campo de email. La tabla cruda es
// legible; se normaliza y deduplica una sola vez al cargar el paquete.
var rawEmailLabelTokens = []string{
	"email",
	"e-mail",
	"email address",
	"e-mail-adresse",
	"emailadresse",
	"adresse email",
	"courriel",
	"correo electrónico",
	"correo electronico",
}

var emailLabelTokens = normalizeLabelTokens(rawEmailLabelTokens)

// IsIdentityEmailField decide si una pregunta representa la direccion de
// email del encuestado. Reglas en orden: tipo email dedicado, texto corto con
// validationType=email, texto corto cuya etiqueta contiene un token de email.
func IsIdentityEmailField(questionType, label string, extraSettings map[string]any) bool {
	if questionType == domain.QuestionTypeEmail {
		return true
	}
	if questionType != domain.QuestionTypeShort {
		return false
	}

	if value, ok := extraSettings[domain.ExtraSettingValidationType]; ok {
		if validationType, ok := value.(string); ok && validationType == domain.ValidationTypeEmail {
			return true
		}
	}

	normalized := normalizeLabel(label)
	for _, token := range emailLabelTokens {
		if strings.Contains(normalized, token) {
			return true
		}
	}
	return false
}

// IsSummarizable decide si la respuesta entra en el resumen del correo.
// Solo los tipos de texto libre son legibles sin su lista de opciones.
func IsSummarizable(questionType string) bool {
	switch questionType {
	case domain.QuestionTypeShort, domain.QuestionTypeLong, domain.QuestionTypeEmail:
		return true
	}
	return false
}

// normalizeLabel baja a minúsculas y elimina separadores comunes.
// Ej: "E-Mail Address" -> "emailaddress"
func normalizeLabel(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '_', ':', ';', ',':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalizeLabelTokens(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, entry := range raw {
		token := normalizeLabel(entry)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}
