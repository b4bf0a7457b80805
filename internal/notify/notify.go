// Package notify delivers plain-text emails to users.  Services depend on
// the Notifier interface only; main chooses between direct SMTP delivery,
// the RabbitMQ-backed queue and a log-only notifier.
package notify

import (
	"context"
	"log"
)

// Email is a plain-text message for a single recipient.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier sends one email.  Callers treat delivery as best-effort.
type Notifier interface {
	Notify(ctx context.Context, msg Email) error
}

// LogNotifier writes messages to a logger instead of sending them.
type LogNotifier struct {
	Logger *log.Logger // nil uses the standard logger
}

func (n LogNotifier) Notify(_ context.Context, msg Email) error {
	logf := log.Printf
	if n.Logger != nil {
		logf = n.Logger.Printf
	}
	logf("mail to=%s subject=%q body=%q", msg.To, msg.Subject, msg.Body)
	return nil
}
