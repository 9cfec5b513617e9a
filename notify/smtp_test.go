package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/ichiwatch/signal"
)

func testNotification() Notification {
	return Notification{
		Signal: signal.Buy,
		Ticker: "GLD",
		Price:  187.34,
		Date:   "2024-01-15",
	}
}

func TestSubjectLine(t *testing.T) {
	assert.Equal(t, "BUY Signal Alert: GLD", testNotification().Subject())
}

func TestSMTPSendPerRecipient(t *testing.T) {
	var sentTo []string
	n := NewSMTPNotifier("mail.example.com", 587, "user", "pass", "alerts@example.com",
		[]string{"a@example.com", "b@example.com"}, zerolog.Nop())
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "mail.example.com:587", addr)
		assert.Equal(t, "alerts@example.com", from)
		require.Len(t, to, 1)
		sentTo = append(sentTo, to[0])
		return nil
	}

	require.NoError(t, n.Send(context.Background(), testNotification()))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, sentTo)
}

func TestSMTPOneFailureDoesNotBlockOthers(t *testing.T) {
	var sentTo []string
	n := NewSMTPNotifier("mail.example.com", 587, "", "", "alerts@example.com",
		[]string{"bad@example.com", "good@example.com"}, zerolog.Nop())
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		if to[0] == "bad@example.com" {
			return fmt.Errorf("mailbox unavailable")
		}
		sentTo = append(sentTo, to[0])
		return nil
	}

	// Partial failure is not an error; delivery is best effort.
	assert.NoError(t, n.Send(context.Background(), testNotification()))
	assert.Equal(t, []string{"good@example.com"}, sentTo)
}

func TestSMTPAllFailed(t *testing.T) {
	n := NewSMTPNotifier("mail.example.com", 587, "", "", "alerts@example.com",
		[]string{"a@example.com", "b@example.com"}, zerolog.Nop())
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return fmt.Errorf("connection refused")
	}

	assert.Error(t, n.Send(context.Background(), testNotification()))
}

func TestBuildMessageParts(t *testing.T) {
	msg := string(buildMessage("alerts@example.com", "a@example.com", testNotification()))

	assert.Contains(t, msg, "Subject: BUY Signal Alert: GLD")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "text/plain")
	assert.Contains(t, msg, "text/html")
	assert.Contains(t, msg, "187.34")
}
