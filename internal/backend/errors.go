package backend

import (
	"fmt"
	"time"
)

// ConfigurationError means the backend has no credential configured. It
// fails before any network call is made.
type ConfigurationError struct {
	Backend string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: no API key configured", e.Backend)
}

// AuthenticationError is a 401/403 from the provider. Terminal, never
// retried.
type AuthenticationError struct {
	Backend string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %v", e.Backend, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RateLimitError is a 429 for one specific model. It is the only error the
// fallback engine recovers from locally.
type RateLimitError struct {
	Backend string
	Model   string
	Err     error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: model %s is rate limited", e.Backend, e.Model)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// AllModelsRateLimitedError means every candidate model is cooling down.
// Wait is the shortest time until one becomes available again, at least one
// second.
type AllModelsRateLimitedError struct {
	Backend string
	Wait    time.Duration
}

func (e *AllModelsRateLimitedError) Error() string {
	return fmt.Sprintf("%s: all models are rate limited, retry in %ds", e.Backend, e.WaitSeconds())
}

// WaitSeconds returns the wait in whole seconds, never below one.
func (e *AllModelsRateLimitedError) WaitSeconds() int {
	s := int(e.Wait / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

// TimeoutError means the per-request timeout aborted the connection.
// Terminal for the call: a slow model never triggers substitution.
type TimeoutError struct {
	Backend string
	Model   string
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request to %s timed out", e.Backend, e.Model)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// NetworkError covers everything else that went wrong on the wire.
type NetworkError struct {
	Backend string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Backend, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
