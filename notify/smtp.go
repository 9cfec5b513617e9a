package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// SMTPNotifier emails signal alerts. Each recipient gets its own send
// attempt so one bad address cannot block the others.
type SMTPNotifier struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
	Log        zerolog.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(host string, port int, username, password, from string, recipients []string, log zerolog.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		Host:       host,
		Port:       port,
		Username:   username,
		Password:   password,
		From:       from,
		Recipients: recipients,
		Log:        log,
		send:       smtp.SendMail,
	}
}

// Send attempts delivery to every recipient independently. Failures are
// logged and counted; an error is returned only when no recipient could
// be reached, and even then callers treat it as non-fatal.
func (s *SMTPNotifier) Send(ctx context.Context, n Notification) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	failed := 0
	for _, rcpt := range s.Recipients {
		msg := buildMessage(s.From, rcpt, n)
		if err := s.send(addr, auth, s.From, []string{rcpt}, msg); err != nil {
			failed++
			s.Log.Error().Err(err).Str("recipient", rcpt).Msg("notification delivery failed")
			continue
		}
		s.Log.Info().Str("recipient", rcpt).Str("subject", n.Subject()).Msg("notification sent")
	}

	if failed > 0 && failed == len(s.Recipients) {
		return fmt.Errorf("all %d recipients failed", failed)
	}
	return nil
}

// buildMessage renders a multipart/alternative message with plain-text and
// HTML bodies.
func buildMessage(from, to string, n Notification) []byte {
	const boundary = "ichiwatch-alt"

	text := fmt.Sprintf("%s signal for %s at %.2f on %s\r\n", n.Signal, n.Ticker, n.Price, n.Date)
	html := fmt.Sprintf(
		"<html><body><p><b>%s</b> signal for %s at <b>%.2f</b> on %s</p></body></html>\r\n",
		n.Signal, n.Ticker, n.Price, n.Date,
	)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", n.Subject())
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(text)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
