package depreciation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters is wrapped by every ValidationError.
	ErrInvalidParameters = errors.New("invalid depreciation parameters")

	// ErrUnsupportedMethod is returned for methods the engine knows but cannot compute.
	ErrUnsupportedMethod = errors.New("unsupported depreciation method")
)

// ValidationError names the parameter that was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameters
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidParameters) || errors.Is(err, ErrUnsupportedMethod)
}
