package mail

import (
	"context"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

// SMTPRelay talks to a real SMTP server with PLAIN auth.
type SMTPRelay struct {
	cfg    TransportConfig
	client *gomail.Client
}

// NewSMTPRelay builds the go-mail client for cfg. No connection is opened.
func NewSMTPRelay(cfg TransportConfig) (*SMTPRelay, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, ErrMissingCredentials
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTimeout(cfg.Timeout),
	}
	if cfg.ImplicitTLS {
		opts = append(opts, gomail.WithSSL())
	} else {
		// upgrade with STARTTLS when the server offers it
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: build client: %w", err)
	}

	return &SMTPRelay{cfg: cfg, client: client}, nil
}

// NewSMTPRelayFactory adapts NewSMTPRelay to RelayFactory.
func NewSMTPRelayFactory() RelayFactory {
	return func(cfg TransportConfig) (Relay, error) {
		r, err := NewSMTPRelay(cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// Verify dials, negotiates TLS, authenticates and quits.
func (r *SMTPRelay) Verify(ctx context.Context) error {
	if err := r.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("mail: verify %s:%d: %w", r.cfg.Host, r.cfg.Port, err)
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("mail: close after verify: %w", err)
	}
	return nil
}

// Send opens a fresh connection and delivers msg.
func (r *SMTPRelay) Send(ctx context.Context, msg *Message) (string, error) {
	m, err := msg.toMsg()
	if err != nil {
		return "", err
	}
	if err := r.client.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("mail: send: %w", err)
	}
	return strings.Trim(m.GetMessageID(), "<>"), nil
}

func (msg *Message) toMsg() (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.FromAddress); err != nil {
		return nil, fmt.Errorf("mail: invalid sender: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		// an unparseable reply address must not block delivery; it is still in the body
		_ = m.ReplyTo(msg.ReplyTo)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}
