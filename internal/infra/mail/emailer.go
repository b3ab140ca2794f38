package mail

import (
	"context"
	"fmt"
	"net/smtp"
)

// Message is one outbound transactional email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier is what the provisioning workflow sees. Delivery is always
// best-effort from its point of view.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPEmailer sends plain-text mail over authenticated SMTP.
type SMTPEmailer struct {
	From     string
	Password string
	Host     string
	Port     string
}

func NewSMTPEmailer(from, password, host, port string) *SMTPEmailer {
	return &SMTPEmailer{From: from, Password: password, Host: host, Port: port}
}

func (e *SMTPEmailer) Send(ctx context.Context, msg Message) error {
	if e.Host == "" || e.From == "" {
		return fmt.Errorf("smtp not configured")
	}

	auth := smtp.PlainAuth("", e.From, e.Password, e.Host)

	message := []byte("Subject: " + msg.Subject + "\r\n" +
		"From: " + e.From + "\r\n" +
		"To: " + msg.To + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		msg.Body + "\r\n")

	// net/smtp has no context hooks; honour cancellation at least on entry.
	if err := ctx.Err(); err != nil {
		return err
	}
	return smtp.SendMail(e.Host+":"+e.Port, auth, e.From, []string{msg.To}, message)
}
