package contactclient

import (
	"context"
	"errors"
	"sync"

	"softacc-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// FallbackError is shown when the server gave no usable error text or the
// request never completed.
const FallbackError = "Es ist ein Fehler aufgetreten. Bitte versuchen Sie es später erneut."

var (
	ErrSubmitInProgress = errors.New("contactclient: submission already in progress")
	ErrInvalidFields    = errors.New("contactclient: fields failed validation")
)

type State int

const (
	Composing State = iota
	Submitting
	Submitted
)

func (s State) String() string {
	switch s {
	case Composing:
		return "composing"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Form is the state behind one contact form. It is safe for concurrent use.
type Form struct {
	client   *Client
	validate *validator.Validate

	mu          sync.Mutex
	fields      Fields
	state       State
	fieldErrors map[string]string
	banner      string
	messageID   string
}

func NewForm(client *Client) *Form {
	return &Form{
		client:   client,
		validate: validation.New(),
		state:    Composing,
	}
}

// Set replaces the field values. A submitted form returns to composing.
func (f *Form) Set(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
	if f.state == Submitted {
		f.state = Composing
	}
}

// Reset empties the form for another message.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return
	}
	f.fields = Fields{}
	f.state = Composing
	f.fieldErrors = nil
	f.banner = ""
	f.messageID = ""
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// FieldErrors returns the inline messages of the last validation, keyed by
// Fields struct field name.
func (f *Form) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// Banner is the general error shown after a failed send.
func (f *Form) Banner() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner
}

// MessageID is the relay's id of the last delivered submission.
func (f *Form) MessageID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messageID
}

// Submit validates the fields and, if they pass, sends them once.
//
// Invalid fields set inline errors and return ErrInvalidFields without any
// request. On delivery the form moves to Submitted and is cleared, unless
// Set changed the fields meanwhile. On any other outcome the fields are
// kept, the banner is set and the form goes back to Composing. A Submit while another is in flight returns
// ErrSubmitInProgress and changes nothing.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}

	snapshot := f.fields
	fields := snapshot.trimmed()
	if err := f.validate.Struct(&fields); err != nil {
		f.fieldErrors = make(map[string]string)
		for _, fe := range validation.FieldErrors(err) {
			if _, seen := f.fieldErrors[fe.Field]; !seen {
				f.fieldErrors[fe.Field] = fe.Message
			}
		}
		f.banner = ""
		f.state = Composing
		f.mu.Unlock()
		return ErrInvalidFields
	}

	f.state = Submitting
	f.fieldErrors = nil
	f.banner = ""
	f.mu.Unlock()

	id, err := f.client.Send(ctx, fields)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = Composing
		f.banner = bannerFor(err)
		return err
	}

	f.state = Submitted
	// edits made while the request was in flight are kept
	if f.fields == snapshot {
		f.fields = Fields{}
	}
	f.messageID = id
	return nil
}

func bannerFor(err error) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return FallbackError
}
