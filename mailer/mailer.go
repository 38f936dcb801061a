// Package mailer composes and delivers transactional email: the order
// confirmation sent after placement and the mail:test diagnostic message.
package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/config"
)

// Sender hands a composed message to the mail transport. The SMTP
// implementation is swapped for a fake in tests.
type Sender interface {
	Send(m *gomail.Message) error
}

// SMTPSender delivers messages over SMTP via gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender builds a sender from the SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send dials the configured server and delivers one message.
func (s *SMTPSender) Send(m *gomail.Message) error {
	return s.dialer.DialAndSend(m)
}
