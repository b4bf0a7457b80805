package notify

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/iliyamo/event-ticket-reservation/internal/config"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := LogNotifier{Logger: log.New(&buf, "", 0)}
	require.NoError(t, n.Notify(context.Background(), Email{To: "a@example.com", Subject: "Hi", Body: "there"}))
	assert.Equal(t, "mail to=a@example.com subject=\"Hi\" body=\"there\"\n", buf.String())
}

func TestSMTPMessage(t *testing.T) {
	s, err := NewSMTPSender(config.MailConfig{Host: "localhost", Port: 2525, From: "no-reply@tickets.local", FromName: "Tickets", TLS: "none"})
	require.NoError(t, err)

	msg, err := s.Message(Email{To: "ann@example.com", Subject: "Reservation created", Body: "hello"})
	require.NoError(t, err)
	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ann@example.com"}, rcpts)
	assert.Equal(t, []string{"Reservation created"}, msg.GetGenHeader(mail.HeaderSubject))

	_, err = s.Message(Email{To: "not an address"})
	assert.Error(t, err)
}

func TestTLSPolicy(t *testing.T) {
	assert.Equal(t, mail.TLSMandatory, tlsPolicy("MANDATORY"))
	assert.Equal(t, mail.NoTLS, tlsPolicy("none"))
	assert.Equal(t, mail.TLSOpportunistic, tlsPolicy(""))
}
