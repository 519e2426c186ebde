// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"fmt"
	"os"
)

// ValidationError describes a malformed watch definition. It wraps
// os.ErrInvalid so that callers can test with errors.Is while the command
// layer renders the message verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return os.ErrInvalid
}
