package domain

import "context"

// ContactSubmission represents a contact form submission. It lives for one
// request and is never stored.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required" example:"Anna Muster"`
	Email   string `json:"email" validate:"required" example:"anna@example.com"`
	Phone   string `json:"telefon,omitempty" example:"+41 44 123 45 67"`
	Company string `json:"unternehmen,omitempty" example:"Muster AG"`
	Message string `json:"nachricht" validate:"required" example:"Wir benötigen Unterstützung bei der Migration."`
}

// ContactReceipt is returned once the relay accepted the message.
type ContactReceipt struct {
	MessageID string
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit validates the submission and relays it to the contact inbox
	Submit(ctx context.Context, sub *ContactSubmission) (*ContactReceipt, error)
}
