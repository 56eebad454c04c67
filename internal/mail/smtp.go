package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPDispatcher отправляет письма через SMTP без авторизации (Mailpit/MailHog и релеи)
type SMTPDispatcher struct {
	addr string
	from string
}

func NewSMTPDispatcher(host string, port int, from string) *SMTPDispatcher {
	return &SMTPDispatcher{
		addr: fmt.Sprintf("%s:%d", strings.TrimSpace(host), port),
		from: strings.TrimSpace(from),
	}
}

func (d *SMTPDispatcher) Name() string {
	return "smtp"
}

func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := Render(msg)
	if err != nil {
		return err
	}

	raw := buildMessage(d.from, msg.To.Address(), msg.Subject, body)
	if err := smtp.SendMail(d.addr, nil, envelopeAddress(d.from), []string{msg.To.Email}, []byte(raw)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To.Email, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}

// envelopeAddress извлекает email из "Name <email>"
func envelopeAddress(addr string) string {
	start := strings.LastIndex(addr, "<")
	end := strings.LastIndex(addr, ">")
	if start >= 0 && end > start {
		return addr[start+1 : end]
	}
	return addr
}
