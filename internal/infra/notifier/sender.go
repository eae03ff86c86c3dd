package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
)

// ErrSend возвращается при ошибке доставки письма
var ErrSend = errors.New("notifier: failed to send message")

// Message письмо для отправки
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender доставка писем
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender отправка через SMTP (mailyak)
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPSender создает отправителя; при пустом user авторизация не используется
func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

// Send отправляет письмо
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mail := mailyak.New(s.addr, s.auth)
	mail.To(msg.To)
	mail.From(s.from)
	mail.FromName("Smart Parking")
	mail.Subject(msg.Subject)
	mail.HTML().Set(msg.HTML)

	if err := mail.Send(); err != nil {
		return fmt.Errorf("%w: to=%s: %v", ErrSend, msg.To, err)
	}
	return nil
}

// LogSender пишет письма в лог вместо отправки (уведомления выключены)
type LogSender struct {
	logger Logger
}

// NewLogSender создает отправителя в лог
func NewLogSender(logger Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send логирует письмо
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("Notifier: email delivery disabled, to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
