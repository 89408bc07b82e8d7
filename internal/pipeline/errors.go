package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks caller mistakes: bad cut kind, out-of-range offset.
	ErrValidation = errors.New("validation error")
	// ErrArchive marks archives that cannot be read or fail safety checks.
	ErrArchive = errors.New("archive error")
)

// Wrap builds an error message with operation context while tagging it with
// the provided marker for later classification.
func Wrap(marker error, operation, message string, err error) error {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "pipeline failure"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
