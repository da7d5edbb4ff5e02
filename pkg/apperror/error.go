package apperror

import "net/http"

// Kind classifies where in the request a failure originated.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindConfiguration
	KindUnreachable
	KindSendFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindUnreachable:
		return "unreachable"
	case KindSendFailed:
		return "send_failed"
	default:
		return "unexpected"
	}
}

type AppError struct {
	Kind    Kind     `json:"-"`
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
	Err     error    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func newKind(kind Kind, code int, message string, err error) *AppError {
	e := New(code, message, err)
	e.Kind = kind
	return e
}

// Validation is a user-correctable input error. fields carries per-field detail.
func Validation(message string, fields []string) *AppError {
	e := newKind(KindValidation, http.StatusBadRequest, message, nil)
	e.Fields = fields
	return e
}

// Configuration reports an operator fault. The message must not contain config values.
func Configuration(message string, err error) *AppError {
	return newKind(KindConfiguration, http.StatusInternalServerError, message, err)
}

func Unreachable(message string, err error) *AppError {
	return newKind(KindUnreachable, http.StatusInternalServerError, message, err)
}

func SendFailed(message string, err error) *AppError {
	return newKind(KindSendFailed, http.StatusInternalServerError, message, err)
}

func Unexpected(message string, err error) *AppError {
	return newKind(KindUnexpected, http.StatusInternalServerError, message, err)
}

func BadRequest(message string) *AppError {
	return newKind(KindValidation, http.StatusBadRequest, message, nil)
}

func Internal(err error) *AppError {
	return Unexpected("Internal Server Error", err)
}
