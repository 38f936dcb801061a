package mailer

import (
	"errors"
	"strings"
	"testing"
)

func TestRunMailTestSuccess(t *testing.T) {
	sender := &fakeSender{}
	var out strings.Builder

	RunMailTest(&out, sender, "noreply@tadawi.app", "ops@example.com")

	if len(sender.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(sender.sent))
	}
	if got := sender.sent[0].GetHeader("To"); len(got) != 1 || got[0] != "ops@example.com" {
		t.Errorf("Unexpected recipient: %v", got)
	}
	if !strings.Contains(out.String(), "Test email sent successfully to ops@example.com") {
		t.Errorf("Expected a success message, got %q", out.String())
	}
}

func TestRunMailTestFailureIsSwallowed(t *testing.T) {
	// An unreachable SMTP host must produce a printed failure, never a
	// propagated error or panic.
	sender := &fakeSender{err: errors.New("dial tcp 10.0.0.1:587: i/o timeout")}
	var out strings.Builder

	RunMailTest(&out, sender, "noreply@tadawi.app", "ops@example.com")

	if !strings.Contains(out.String(), "Failed to send test email") {
		t.Errorf("Expected a failure message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "i/o timeout") {
		t.Errorf("Failure message should include the transport error, got %q", out.String())
	}
}
