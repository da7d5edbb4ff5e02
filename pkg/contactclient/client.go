// Package contactclient submits the website contact form to the contact
// endpoint and tracks the form through composing, submitting and submitted.
package contactclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one submission. The server may spend two SMTP
// timeouts on verify and send before it answers.
const DefaultTimeout = 30 * time.Second

// maxReplyBytes caps how much of a reply is decoded
const maxReplyBytes = 1 << 20

// Fields are the values of one contact form. Validation tags describe the
// checks run before anything is sent.
type Fields struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"telefon,omitempty" validate:"omitempty,valid_phone"`
	Company string `json:"unternehmen,omitempty" validate:"omitempty,max=200"`
	Message string `json:"nachricht" validate:"required,min=10"`
}

func (f Fields) trimmed() Fields {
	return Fields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Company: strings.TrimSpace(f.Company),
		Message: strings.TrimSpace(f.Message),
	}
}

// ServerError is a reply that did not confirm delivery. Message is the
// server's error text and may be empty.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contactclient: server responded %d", e.Status)
	}
	return fmt.Sprintf("contactclient: server responded %d: %s", e.Status, e.Message)
}

type reply struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

// Client posts submissions to one endpoint, such as
// https://api.softacc.ch/v1/contact.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client with its DefaultTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send issues exactly one POST with f as JSON and returns the relay's
// message id. Delivery is confirmed only by a 2xx reply with success set;
// every other reply becomes a *ServerError. Transport failures are
// returned wrapped.
func (c *Client) Send(ctx context.Context, f Fields) (string, error) {
	body, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("contactclient: encode fields: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("contactclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("contactclient: post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	var out reply
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&out)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && decodeErr == nil && out.Success {
		return out.MessageID, nil
	}
	return "", &ServerError{Status: resp.StatusCode, Message: strings.TrimSpace(out.Error)}
}
