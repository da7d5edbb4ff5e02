package validation_test

import (
	"errors"
	"testing"

	"softacc-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `validate:"not_blank"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"valid_phone"`
	Message string `validate:"required,min=10"`
}

func TestNotBlankAndRequired(t *testing.T) {
	v := validation.New()

	err := v.Struct(sample{Name: "   ", Email: "", Message: "kurz"})
	require.Error(t, err)

	assert.Equal(t, []string{"Name", "E-Mail"}, validation.MissingLabels(err))
	assert.ElementsMatch(t, []string{
		"Name: Pflichtfeld",
		"E-Mail: Pflichtfeld",
		"Nachricht: Mindestens 10 Zeichen",
	}, validation.FormatValidationErrors(err))
}

func TestFieldErrorsKeepField(t *testing.T) {
	v := validation.New()

	err := v.Struct(sample{Name: "Anna", Email: "keine-adresse", Message: "Eine ausreichend lange Nachricht"})
	require.Error(t, err)

	details := validation.FieldErrors(err)
	require.Len(t, details, 1)
	assert.Equal(t, "Email", details[0].Field)
	assert.Contains(t, details[0].Message, "gültige E-Mail-Adresse")
}

func TestValidPhone(t *testing.T) {
	v := validation.New()

	for _, phone := range []string{"", "+41 44 123 45 67", "044/123.45.67", "(044) 123-4567"} {
		assert.NoError(t, v.Var(phone, "valid_phone"), phone)
	}
	for _, phone := range []string{"abc", "12", "+41 44 123 45 67 ext. 9"} {
		assert.Error(t, v.Var(phone, "valid_phone"), phone)
	}
}

func TestNonValidationError(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, []string{"boom"}, validation.FormatValidationErrors(err))
	assert.Nil(t, validation.MissingLabels(err))
}
