package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPricingNotFound indicates the pricing table has no entry for an alias.
	// The cost calculator recovers from it by reporting zero cost.
	ErrPricingNotFound = errors.New("pricing not found")

	// ErrMissingUsage indicates the provider response carried no token usage.
	ErrMissingUsage = errors.New("provider response has no usage report")

	// ErrInvalidRequest indicates a caller error detected before any provider call.
	ErrInvalidRequest = errors.New("invalid request")
)

// ProviderError reports a failed Completion Provider call.
// Err is the provider's original error and is reachable through errors.Unwrap.
type ProviderError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed for model %s: %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
