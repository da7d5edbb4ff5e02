package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Placeholder is rendered for optional fields the submitter left empty.
const Placeholder = "Nicht angegeben"

// ContactFields is the submitter input a contact message is built from.
type ContactFields struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Message string
}

// Envelope holds the fixed addressing of contact messages.
type Envelope struct {
	FromName    string
	FromAddress string
	To          string
}

const contactHTMLTemplate = `<h2>Neue Kontaktanfrage über das Webformular</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>E-Mail:</strong> {{.Email}}</p>
<p><strong>Telefon:</strong> {{.Phone}}</p>
<p><strong>Unternehmen:</strong> {{.Company}}</p>
<p><strong>Nachricht:</strong></p>
<p>{{.Message}}</p>
`

var (
	contactHTML = template.Must(template.New("contact").Parse(contactHTMLTemplate))

	bodyPolicy     *bluemonday.Policy
	bodyPolicyOnce sync.Once
)

func htmlPolicy() *bluemonday.Policy {
	bodyPolicyOnce.Do(func() {
		bodyPolicy = bluemonday.NewPolicy()
		bodyPolicy.AllowElements("h2", "p", "strong", "br")
	})
	return bodyPolicy
}

// ComposeContact renders f into a message addressed per env. Replies go to the submitter.
func ComposeContact(f ContactFields, env Envelope) (*Message, error) {
	text := normalizeNewlines(f.Message)

	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\n", f.Name)
	fmt.Fprintf(&body, "E-Mail: %s\n", f.Email)
	fmt.Fprintf(&body, "Telefon: %s\n", orPlaceholder(f.Phone))
	fmt.Fprintf(&body, "Unternehmen: %s\n", orPlaceholder(f.Company))
	fmt.Fprintf(&body, "\nNachricht:\n%s\n", text)

	var html bytes.Buffer
	err := contactHTML.Execute(&html, struct {
		Name, Email, Phone, Company string
		Message                     template.HTML
	}{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   orPlaceholder(f.Phone),
		Company: orPlaceholder(f.Company),
		Message: template.HTML(strings.ReplaceAll(template.HTMLEscapeString(text), "\n", "<br>")),
	})
	if err != nil {
		return nil, fmt.Errorf("mail: render contact html: %w", err)
	}

	return &Message{
		FromName:    env.FromName,
		FromAddress: env.FromAddress,
		To:          []string{env.To},
		ReplyTo:     f.Email,
		Subject:     "Neue Kontaktanfrage von " + f.Name,
		Text:        body.String(),
		HTML:        htmlPolicy().Sanitize(html.String()),
	}, nil
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
