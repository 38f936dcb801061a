package mailer

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// RunMailTest sends a fixed-content test message to verify the SMTP
// configuration. It is an operator-facing diagnostic: every transport error
// is caught and printed instead of propagated, so the command always
// returns normally.
func RunMailTest(w io.Writer, sender Sender, from, to string) {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Tadawi SMTP test")
	m.SetBody("text/plain", "This is a test email from Tadawi to verify the SMTP configuration.")

	if err := sender.Send(m); err != nil {
		fmt.Fprintf(w, "Failed to send test email to %s: %v\n", to, err)
		return
	}

	fmt.Fprintf(w, "Test email sent successfully to %s\n", to)
}
