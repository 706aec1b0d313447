package mexc

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is matched by every *ConfigError.
var ErrMissingCredential = errors.New("missing credential")

// ConfigError reports a credential the selected signing scheme needs but the
// client was built without. It is never retried.
type ConfigError struct {
	Scheme     Scheme
	Credential string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mexc: %s signing requires %s", e.Scheme, e.Credential)
}

func (e *ConfigError) Unwrap() error { return ErrMissingCredential }

// APIError is a refusal by the exchange: a non-2xx status or an envelope with
// success=false.
type APIError struct {
	Status  int
	Code    int64
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("mexc api error (status %d, code %d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("mexc api error (status %d): %s", e.Status, e.Message)
}

// DecodeError means the response did not have the shape the endpoint promises.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mexc: decode %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var errMissingData = errors.New("expected data field")
