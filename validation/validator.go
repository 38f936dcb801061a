// Package validation provides input validation for the HTTP and CLI surfaces.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/interfaces"
)

// Pre-compiled regex patterns, compiled once at package initialization.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidatorImpl implements the interfaces.Validator interface
type ValidatorImpl struct{}

// NewValidator creates a new input validator
func NewValidator() interfaces.Validator {
	return &ValidatorImpl{}
}

// ValidateIncludes parses a comma-separated ?include= value against the
// allowed set for a resource. Unknown names are rejected rather than
// silently dropped so clients notice typos. Duplicates collapse to one.
func (v *ValidatorImpl) ValidateIncludes(raw string, allowed []interfaces.Include) ([]interfaces.Include, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	seen := make(map[interfaces.Include]bool)
	var includes []interfaces.Include

	for _, part := range strings.Split(raw, ",") {
		name := interfaces.Include(strings.TrimSpace(part))
		if name == "" {
			continue
		}

		if !includeAllowed(name, allowed) {
			return nil, fmt.Errorf("unknown include %q, allowed values: %s", name, joinIncludes(allowed))
		}

		if !seen[name] {
			seen[name] = true
			includes = append(includes, name)
		}
	}

	return includes, nil
}

// ValidateID parses a positive numeric id from a URL parameter.
func (v *ValidatorImpl) ValidateID(input string) (int64, error) {
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be a number, got %q", input)
	}

	if id < 1 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}

	return id, nil
}

// ValidateEmail checks the address handed to the mail:test command.
func (v *ValidatorImpl) ValidateEmail(input string) error {
	input = strings.TrimSpace(input)

	if input == "" {
		return fmt.Errorf("email address cannot be empty")
	}

	if len(input) > 254 {
		return fmt.Errorf("email address too long: %d characters", len(input))
	}

	if !emailRegex.MatchString(input) {
		return fmt.Errorf("invalid email address: %q", input)
	}

	return nil
}

func includeAllowed(name interfaces.Include, allowed []interfaces.Include) bool {
	for _, a := range allowed {
		if name == a {
			return true
		}
	}
	return false
}

func joinIncludes(allowed []interfaces.Include) string {
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}
