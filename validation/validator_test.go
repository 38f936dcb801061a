package validation

import (
	"strings"
	"testing"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/interfaces"
)

var orderIncludes = []interfaces.Include{
	interfaces.IncludeUser,
	interfaces.IncludePharmacy,
	interfaces.IncludeMedicines,
	interfaces.IncludePrescriptions,
	interfaces.IncludePayments,
}

func TestValidateIncludes(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		raw      string
		expected []interfaces.Include
	}{
		{
			name:     "empty value means no includes",
			raw:      "",
			expected: nil,
		},
		{
			name:     "single include",
			raw:      "user",
			expected: []interfaces.Include{interfaces.IncludeUser},
		},
		{
			name: "multiple includes keep request order",
			raw:  "payments,user,medicines",
			expected: []interfaces.Include{
				interfaces.IncludePayments,
				interfaces.IncludeUser,
				interfaces.IncludeMedicines,
			},
		},
		{
			name:     "whitespace and duplicates are tolerated",
			raw:      " user , user ,,pharmacy",
			expected: []interfaces.Include{interfaces.IncludeUser, interfaces.IncludePharmacy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateIncludes(tt.raw, orderIncludes)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %v, got %v", tt.expected, got)
				}
			}
		})
	}
}

func TestValidateIncludesRejectsUnknown(t *testing.T) {
	v := NewValidator()

	_, err := v.ValidateIncludes("user,stock_batches", orderIncludes)
	if err == nil {
		t.Fatal("Expected an error for an include outside the allowed set")
	}
	if !strings.Contains(err.Error(), "stock_batches") {
		t.Errorf("Error should name the offending include, got %v", err)
	}
	if !strings.Contains(err.Error(), "user, pharmacy") {
		t.Errorf("Error should list the allowed values, got %v", err)
	}
}

func TestValidateID(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		input     string
		expected  int64
		expectErr bool
	}{
		{name: "valid id", input: "42", expected: 42},
		{name: "large id", input: "9223372036854775807", expected: 9223372036854775807},
		{name: "zero", input: "0", expectErr: true},
		{name: "negative", input: "-3", expectErr: true},
		{name: "not a number", input: "abc", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateID(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected an error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	v := NewValidator()

	valid := []string{
		"ops@example.com",
		"first.last+tag@sub.example.co",
		"  padded@example.com  ",
	}
	for _, email := range valid {
		if err := v.ValidateEmail(email); err != nil {
			t.Errorf("Expected %q to be valid, got %v", email, err)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"missing@tld",
		"@example.com",
		"user@.com",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, email := range invalid {
		if err := v.ValidateEmail(email); err == nil {
			t.Errorf("Expected %q to be rejected", email)
		}
	}
}
