// Package queue defines message payloads exchanged over the message broker
// together with their publisher and consumer.
package queue

import (
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/notify"
)

// EmailRequested is published whenever a service asks for an email to be
// sent.  The consumer delivers it through SMTP.
type EmailRequested struct {
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	RequestedAt time.Time `json:"requested_at"`
}

// Email converts the payload back into a notify.Email.
func (e EmailRequested) Email() notify.Email {
	return notify.Email{To: e.To, Subject: e.Subject, Body: e.Body}
}
