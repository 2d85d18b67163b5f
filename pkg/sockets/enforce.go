package sockets

import (
	"log/slog"
	"net"

	"github.com/secdial/secdial/pkg/protocol"
)

// DesiredProtocols yields the allow-list to enforce at socket-creation
// time. It is called once per produced socket, so sources backed by the
// protocol registry always reflect the current configuration.
type DesiredProtocols func() protocol.Set

// FixedProtocols returns a source that always yields the given names, used
// when a factory was created for one explicitly requested protocol.
func FixedProtocols(names ...string) DesiredProtocols {
	set := protocol.NewSet(names...)
	return func() protocol.Set { return set }
}

// RegistryProtocols returns a source that yields the registry's enabled
// set at each call. A nil registry means the process-wide shared registry.
func RegistryProtocols(r *protocol.Registry) DesiredProtocols {
	if r == nil {
		r = protocol.SharedRegistry()
	}
	return r.EnabledProtocols
}

// ApplyEnabledProtocols restricts conn to the desired protocol names.
//
// The call is a no-op when conn is not a SecureConn (plain connections
// legitimately pass through here during staged or StartTLS-style setup)
// and when desired is empty, which means "impose no restriction".
//
// When the intersection of desired and the connection's supported
// protocols is empty no handshake can succeed, so that is surfaced as a
// *protocol.UnavailableError. If the connection rejects a non-empty
// intersection for some unrelated reason it keeps its pre-existing
// enabled set and remains usable; that failure is logged and suppressed.
//
// Applying the same desired set twice yields the same enabled list.
func ApplyEnabledProtocols(conn net.Conn, desired protocol.Set, logger *slog.Logger) error {
	sc, ok := conn.(SecureConn)
	if !ok {
		return nil
	}
	return applyEnabledProtocols(sc, desired, logger)
}

// ApplyListenerEnabledProtocols is the listener counterpart of
// ApplyEnabledProtocols.
func ApplyListenerEnabledProtocols(ln net.Listener, desired protocol.Set, logger *slog.Logger) error {
	sl, ok := ln.(SecureListener)
	if !ok {
		return nil
	}
	return applyEnabledProtocols(sl, desired, logger)
}

func applyEnabledProtocols(c ProtocolControls, desired protocol.Set, logger *slog.Logger) error {
	if desired.IsEmpty() {
		return nil
	}

	enable, err := protocol.Intersect(desired, c.SupportedProtocols())
	if err != nil {
		return err
	}

	if err := c.SetEnabledProtocols(enable); err != nil {
		// The socket keeps its previous enabled set and is still usable;
		// this is the single place such failures are discarded.
		if logger != nil {
			logger.Warn("socket rejected computed protocol list",
				"protocols", enable, "error", err)
		}
	}
	return nil
}
