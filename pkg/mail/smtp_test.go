package mail

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closedPort returns a localhost port nothing is listening on.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func validTransport(port int) TransportConfig {
	return TransportConfig{
		Host:     "127.0.0.1",
		Port:     port,
		Username: "kontakt@softacc.ch",
		Password: "secret",
		Timeout:  2 * time.Second,
	}
}

// fakeSMTP is a minimal relay on 127.0.0.1 that speaks enough ESMTP for
// PLAIN auth and one message per connection. It records command verbs only.
type fakeSMTP struct {
	ln         net.Listener
	rejectAuth bool

	mu       sync.Mutex
	commands []string
	messages []string
}

func startFakeSMTP(t *testing.T, rejectAuth bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	s := &fakeSMTP{ln: ln, rejectAuth: rejectAuth}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn)
		}
	}()
	return s
}

func (s *fakeSMTP) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTP) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *fakeSMTP) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *fakeSMTP) serve(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	r := bufio.NewReader(conn)
	reply := func(lines ...string) {
		for _, l := range lines {
			fmt.Fprintf(conn, "%s\r\n", l)
		}
	}

	reply("220 localhost ESMTP ready")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			reply("500 5.5.2 Empty command")
			continue
		}
		cmd := strings.ToUpper(fields[0])
		if cmd == "AUTH" && len(fields) > 1 {
			cmd += " " + strings.ToUpper(fields[1])
		}
		s.mu.Lock()
		s.commands = append(s.commands, cmd)
		s.mu.Unlock()

		switch strings.ToUpper(fields[0]) {
		case "EHLO", "HELO":
			reply("250-localhost", "250-AUTH PLAIN", "250 8BITMIME")
		case "AUTH":
			if s.rejectAuth {
				reply("535 5.7.8 Authentication credentials invalid")
			} else {
				reply("235 2.7.0 Authentication successful")
			}
		case "MAIL", "RCPT", "RSET", "NOOP":
			reply("250 2.0.0 OK")
		case "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var body strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(l, "\r\n") == "." {
					break
				}
				body.WriteString(l)
			}
			s.mu.Lock()
			s.messages = append(s.messages, body.String())
			s.mu.Unlock()
			reply("250 2.0.0 Ok: queued")
		case "QUIT":
			reply("221 2.0.0 Bye")
			return
		default:
			reply("502 5.5.2 Command not recognized")
		}
	}
}

func contactMessage() *Message {
	return &Message{
		FromName:    "Softacc Kontaktformular",
		FromAddress: "kontakt@softacc.ch",
		To:          []string{"info@softacc.ch"},
		ReplyTo:     "anna@example.com",
		Subject:     "Neue Kontaktanfrage von Anna Muster",
		Text:        "Name: Anna Muster\nNachricht: Testnachricht",
		HTML:        "<p><strong>Name:</strong> Anna Muster</p>",
	}
}

func TestSMTPRelay_VerifyAuthenticatesAndQuits(t *testing.T) {
	srv := startFakeSMTP(t, false)
	relay, err := NewSMTPRelay(validTransport(srv.port()))
	require.NoError(t, err)

	require.NoError(t, relay.Verify(context.Background()))

	cmds := srv.Commands()
	assert.Contains(t, cmds, "EHLO")
	assert.Contains(t, cmds, "AUTH PLAIN")
	assert.Equal(t, "QUIT", cmds[len(cmds)-1])
	assert.NotContains(t, cmds, "MAIL")
	assert.Empty(t, srv.Messages())
}

func TestSMTPRelay_VerifyRejectedCredentials(t *testing.T) {
	srv := startFakeSMTP(t, true)
	relay, err := NewSMTPRelay(validTransport(srv.port()))
	require.NoError(t, err)

	err = relay.Verify(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail: verify 127.0.0.1")
	assert.Contains(t, srv.Commands(), "AUTH PLAIN")
}

func TestSMTPRelay_VerifyThenSend(t *testing.T) {
	srv := startFakeSMTP(t, false)
	relay, err := NewSMTPRelay(validTransport(srv.port()))
	require.NoError(t, err)

	require.NoError(t, relay.Verify(context.Background()))
	id, err := relay.Send(context.Background(), contactMessage())

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.False(t, strings.ContainsAny(id, "<>"), id)

	var auths int
	for _, c := range srv.Commands() {
		if c == "AUTH PLAIN" {
			auths++
		}
	}
	assert.Equal(t, 2, auths)
	assert.Contains(t, srv.Commands(), "RCPT")

	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "<"+id+">")
	assert.Contains(t, msgs[0], "Subject: Neue Kontaktanfrage von Anna Muster")
}

func TestSMTPRelay_ImplicitTLSAgainstPlainServer(t *testing.T) {
	srv := startFakeSMTP(t, false)
	cfg := validTransport(srv.port())
	cfg.ImplicitTLS = true

	relay, err := NewSMTPRelay(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	assert.Error(t, relay.Verify(ctx))
	assert.NotContains(t, srv.Commands(), "AUTH PLAIN")
}

func TestNewSMTPRelay_RequiresHostAndCredentials(t *testing.T) {
	_, err := NewSMTPRelay(TransportConfig{Port: 587, Username: "u", Password: "p", Timeout: time.Second})
	assert.ErrorIs(t, err, ErrMissingHost)

	_, err = NewSMTPRelay(TransportConfig{Host: "mail.example.com", Port: 587, Username: "u", Timeout: time.Second})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNewSMTPRelay_RejectsInvalidPort(t *testing.T) {
	cfg := validTransport(0)
	_, err := NewSMTPRelay(cfg)
	assert.Error(t, err)
}

func TestNewSMTPRelayFactory(t *testing.T) {
	factory := NewSMTPRelayFactory()

	relay, err := factory(validTransport(587))
	require.NoError(t, err)
	assert.IsType(t, &SMTPRelay{}, relay)

	relay, err = factory(TransportConfig{})
	assert.Error(t, err)
	assert.Nil(t, relay)
}

func TestSMTPRelay_VerifyUnreachable(t *testing.T) {
	relay, err := NewSMTPRelay(validTransport(closedPort(t)))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = relay.Verify(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail: verify 127.0.0.1")
}

func TestSMTPRelay_SendUnreachable(t *testing.T) {
	relay, err := NewSMTPRelay(validTransport(closedPort(t)))
	require.NoError(t, err)

	id, err := relay.Send(context.Background(), &Message{
		FromName:    "Softacc Kontaktformular",
		FromAddress: "kontakt@softacc.ch",
		To:          []string{"info@softacc.ch"},
		Subject:     "Neue Kontaktanfrage von Anna Muster",
		Text:        "Testnachricht",
	})
	assert.Error(t, err)
	assert.Empty(t, id)
}

func TestMessageToMsg(t *testing.T) {
	msg := &Message{
		FromName:    "Softacc Kontaktformular",
		FromAddress: "kontakt@softacc.ch",
		To:          []string{"info@softacc.ch"},
		ReplyTo:     "anna@example.com",
		Subject:     "Neue Kontaktanfrage von Anna Muster",
		Text:        "Name: Anna Muster",
		HTML:        "<p><strong>Name:</strong> Anna Muster</p>",
	}

	m, err := msg.toMsg()
	require.NoError(t, err)
	assert.NotEmpty(t, m.GetMessageID())

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Neue Kontaktanfrage von Anna Muster")
	assert.Contains(t, raw, "Reply-To:")
	assert.Contains(t, raw, "anna@example.com")
	assert.Contains(t, raw, "Softacc Kontaktformular")
	assert.Contains(t, raw, "info@softacc.ch")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
}

func TestMessageToMsg_BadReplyToIsDropped(t *testing.T) {
	msg := &Message{
		FromName:    "Softacc Kontaktformular",
		FromAddress: "kontakt@softacc.ch",
		To:          []string{"info@softacc.ch"},
		ReplyTo:     "keine adresse",
		Subject:     "Neue Kontaktanfrage von Anna",
		Text:        "Testnachricht",
	}

	m, err := msg.toMsg()
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Reply-To:")
}

func TestMessageToMsg_InvalidRecipient(t *testing.T) {
	msg := &Message{FromName: "x", FromAddress: "kontakt@softacc.ch", To: []string{"not an address"}}
	_, err := msg.toMsg()
	assert.Error(t, err)
}
