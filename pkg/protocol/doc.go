// Package protocol maintains the process-wide TLS protocol configuration
// used when establishing secure connections.
//
// Two pieces of state are kept: the default protocol used to create secure
// contexts when no explicit protocol is requested, and the set of protocols
// that may be enabled on sockets produced by the library. Both are
// discovered once at startup and may be replaced at any time afterwards.
//
// # Discovery
//
// The default protocol is chosen by probing the runtime's TLS stack and
// picking the best of TLSv1.2, TLSv1.1 and TLSv1 that it supports, falling
// back to TLSv1 when the probe fails. The enabled set always contains
// TLSv1 and additionally contains TLSv1.1 and TLSv1.2 when the discovered
// default is new enough. SSLv3 is never enabled automatically because of
// its known security problems, and TLSv1.3 is only enabled through
// explicit configuration.
//
// # Overrides
//
// Both values can be seeded through the environment before discovery runs:
//
//	SECDIAL_DEFAULT_TLS_PROTOCOL   adopted verbatim as the default protocol
//	SECDIAL_ENABLED_TLS_PROTOCOLS  comma or whitespace separated list that
//	                               replaces the computed enabled set
//
// After startup, SetDefaultProtocol and SetEnabledProtocols replace the
// corresponding state atomically. Readers always observe a complete
// snapshot and never block on writers.
package protocol
