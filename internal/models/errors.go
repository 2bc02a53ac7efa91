package models

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by model construction and validation. Callers match them with errors.Is.
var (
	ErrMalformedArgument = errors.New("malformed argument")
	ErrMalformedValue    = errors.New("malformed value")
)

func malformedArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedArgument, fmt.Sprintf(format, args...))
}

func malformedValue(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedValue, fmt.Sprintf(format, args...))
}

// MissingArgument reports an empty required argument.
func MissingArgument(name string) error {
	return malformedArgument("%s is required", name)
}

// InvalidValue reports a value outside its declared enum or range.
func InvalidValue(name string, value interface{}) error {
	return malformedValue("invalid %s: %v", name, value)
}
