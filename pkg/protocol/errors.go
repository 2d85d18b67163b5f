package protocol

import (
	"errors"
	"fmt"
)

// ErrEmptyDefaultProtocol is returned when an empty string is passed to
// SetDefaultProtocol.
var ErrEmptyDefaultProtocol = errors.New("default TLS protocol must not be empty")

// UnavailableError reports that none of the desired protocols are supported
// by a socket or engine. Retrying cannot succeed until the enabled set is
// reconfigured, so the message names the override mechanisms an operator
// can use.
type UnavailableError struct {
	// Desired is the full allow-list that was requested.
	Desired []string

	// Supported is the full list the socket reported.
	Supported []string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf(
		"none of the configured protocols %s are supported by the socket, which supports %s; "+
			"set the %s environment variable or call protocol.SetEnabledProtocols to adjust the allowed set",
		quoteList(e.Desired), quoteList(e.Supported), EnvEnabledProtocols)
}
