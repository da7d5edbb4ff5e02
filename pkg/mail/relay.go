// Package mail relays contact messages to an SMTP server.
//
// The Relay interface is the only thing callers depend on. SMTPRelay is the
// production implementation; tests substitute their own.
package mail

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMissingHost indicates the transport has no relay host.
	ErrMissingHost = errors.New("mail: relay host is required")

	// ErrMissingCredentials indicates username or password is empty.
	ErrMissingCredentials = errors.New("mail: relay credentials are required")
)

// TransportConfig describes how to reach and authenticate against the relay.
type TransportConfig struct {
	Host        string
	Port        int
	ImplicitTLS bool // TLS from connect instead of STARTTLS
	Username    string
	Password    string
	Timeout     time.Duration
}

// Message is a fully composed email with plain text and HTML renderings.
type Message struct {
	FromName    string
	FromAddress string
	To          []string
	ReplyTo     string
	Subject     string
	Text        string
	HTML        string
}

// Relay is the capability the contact pipeline needs from a mail server.
type Relay interface {
	// Verify performs a connect and authenticate handshake without sending.
	Verify(ctx context.Context) error
	// Send delivers msg and returns the Message-ID assigned to it.
	Send(ctx context.Context, msg *Message) (string, error)
}

// RelayFactory builds a Relay for one request.
type RelayFactory func(cfg TransportConfig) (Relay, error)
