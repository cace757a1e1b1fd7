package otp

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/formloop/formloop/log"
)

// Sender delivers a passcode to an email address.
type Sender interface {
	SendCode(email, code string, expiresAt time.Time) error
}

// SMTPSender delivers passcodes over plain SMTP with auth.
type SMTPSender struct {
	Host string
	Port uint
	User string
	Pass string
	From string
}

func (s SMTPSender) SendCode(email, code string, expiresAt time.Time) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Email Verification - Your OTP Code\r\n\r\n"+
			"Your verification code is %s.\r\nIt expires at %s.\r\n"+
			"If you didn't request this verification, please ignore this email.\r\n",
		s.From, email, code, expiresAt.UTC().Format(time.RFC1123),
	)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	return smtp.SendMail(addr, auth, s.From, []string{email}, []byte(msg))
}

// LogSender writes the passcode to the application log instead of
// sending mail. Used when no SMTP configuration is present.
type LogSender struct{}

func (LogSender) SendCode(email, code string, expiresAt time.Time) error {
	log.Infof("otp for %s: %s (expires %s)", email, code, expiresAt.UTC().Format(time.RFC3339))
	return nil
}
