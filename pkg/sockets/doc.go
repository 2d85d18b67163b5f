// Package sockets retrofits protocol-version restrictions onto connections
// and listeners produced by generic socket factories.
//
// The underlying factory APIs have no construction-time protocol
// parameter, so the allow-list is applied after the fact: every secure
// connection or listener a wrapped factory produces has its enabled
// protocols replaced with the intersection of the desired set and
// whatever the socket reports as supported, before it is handed to the
// caller.
//
// Factories are wrapped with NewEnforcingSocketFactory and
// NewEnforcingServerSocketFactory. Individual connections can also be
// enforced directly with ApplyEnabledProtocols, which is safe to call on
// plain (non-secure) connections and is idempotent.
package sockets
