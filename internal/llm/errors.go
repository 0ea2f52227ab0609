package llm

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the adapter. Configuration and validation problems
// are detected before any network call; anything originating from the
// transport or provider is wrapped in ErrInvocation with the cause attached.
// The adapter never retries and never swallows an error.
var (
	ErrMissingToken    = errors.New("missing credential token")
	ErrInvalidConfig   = errors.New("invalid model configuration")
	ErrUnsupportedRole = errors.New("unsupported message role")
	ErrInvocation      = errors.New("provider invocation failed")
)

func invocationError(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvocation, cause)
}
