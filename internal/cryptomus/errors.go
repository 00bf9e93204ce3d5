package cryptomus

import "fmt"

// ConfigError means credentials are missing or still placeholders. Fatal;
// raised before any network I/O.
type ConfigError struct {
	Field string
	Hint  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cryptomus configuration: %s %s", e.Field, e.Hint)
}

// TransportError is a non-2xx response or a network-level failure.
// Retryable at the caller's discretion.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("cryptomus transport: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("cryptomus transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProcessorError is a 2xx response whose body carries a nonzero processor
// state code. Not retryable without changing the request.
type ProcessorError struct {
	State       int
	Message     string
	FieldErrors map[string][]string
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("cryptomus error %d: %s", e.State, e.Message)
}
