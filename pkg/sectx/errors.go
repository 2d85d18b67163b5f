package sectx

import "fmt"

// ConfigError reports that a secure context could not be created or
// initialized: the provider does not support the requested protocol, or
// binding the supplied key/trust material failed. It is surfaced to the
// caller and never retried internally.
type ConfigError struct {
	// Protocol is the protocol name the context was requested for.
	Protocol string

	// Provider is the name of the provider that rejected the request.
	Provider string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("cannot create secure context for protocol %q with provider %q", e.Protocol, e.Provider)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }
