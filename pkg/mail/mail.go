// Package mail provides outbound email delivery for verification codes.
package mail

import "context"

// Message is a single outbound email.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Mailer is any service that can deliver a message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
