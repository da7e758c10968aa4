package validator

import (
	"errors"
	"fmt"
)

// DefaultMaxPayloadSize caps inbound JSON payloads.
const DefaultMaxPayloadSize = 10 * 1024 * 1024 // 10MB

// ErrPayloadTooLarge marks bodies above the configured limit; handlers
// map it to HTTP 413.
var ErrPayloadTooLarge = errors.New("payload too large")

// ValidatePayloadSize checks the request body against the limit.
func ValidatePayloadSize(size, max int64) error {
	if size <= 0 {
		return errors.New("empty request body")
	}
	if max <= 0 {
		max = DefaultMaxPayloadSize
	}
	if size > max {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, size, max)
	}
	return nil
}

// ValidateTextLength checks a named field against its character limit.
func ValidateTextLength(field, value string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%s exceeds %d characters", field, max)
	}
	return nil
}
