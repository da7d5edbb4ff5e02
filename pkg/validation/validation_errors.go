package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the German labels shown on the form
var FieldLabels = map[string]string{
	"Name":    "Name",
	"Email":   "E-Mail",
	"Phone":   "Telefon",
	"Company": "Unternehmen",
	"Message": "Nachricht",
}

// FieldError is a single field failure keyed by the struct field name.
type FieldError struct {
	Field   string
	Message string
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	details := FieldErrors(err)
	messages := make([]string, 0, len(details))
	for _, d := range details {
		messages = append(messages, d.Message)
	}
	return messages
}

// FieldErrors is like FormatValidationErrors but keeps the field each message belongs to.
func FieldErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, FieldError{Field: e.Field(), Message: formatSingleError(e)})
	}
	return out
}

// MissingLabels returns the labels of fields that failed a required or not_blank rule.
func MissingLabels(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	var labels []string
	for _, e := range validationErrors {
		if e.Tag() == "required" || e.Tag() == "not_blank" {
			labels = append(labels, getFieldLabel(e.Field()))
		}
	}
	return labels
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "not_blank":
		return fmt.Sprintf("%s: Pflichtfeld", label)
	case "min":
		return fmt.Sprintf("%s: Mindestens %s Zeichen", label, param)
	case "max":
		return fmt.Sprintf("%s: Höchstens %s Zeichen", label, param)
	case "email":
		return fmt.Sprintf("%s: Bitte geben Sie eine gültige E-Mail-Adresse ein", label)
	case "valid_phone":
		return fmt.Sprintf("%s: Ungültige Telefonnummer", label)
	default:
		return fmt.Sprintf("%s: Ungültige Eingabe (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
