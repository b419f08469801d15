package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageHeaders(t *testing.T) {
	s := NewSMTPSender(Options{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "office@example.com",
		Password: "secret",
	})

	var buf bytes.Buffer
	_, err := s.message("client@example.com", "Monthly Fee", "<p>hello</p>").WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "From: office@example.com")
	assert.Contains(t, raw, "To: client@example.com")
	assert.Contains(t, raw, "Subject: Monthly Fee")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.Contains(t, raw, "<p>hello</p>")
}

func TestExplicitFrom(t *testing.T) {
	s := NewSMTPSender(Options{Host: "localhost", Port: 25, Username: "user", From: "billing@example.com"})
	assert.Equal(t, "billing@example.com", s.from)
}

func TestSendCanceledContext(t *testing.T) {
	s := NewSMTPSender(Options{Host: "localhost", Port: 25})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, "client@example.com", "s", "b")
	assert.ErrorIs(t, err, context.Canceled)
}
