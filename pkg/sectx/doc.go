// Package sectx builds secure contexts and socket factories from
// caller-supplied key and trust capabilities.
//
// A Factory is constructed once with optional key material (certificates
// presented to the peer) and trust material (the decision whether to trust
// the peer's chain) and is immutable afterwards, so it can be shared
// freely across goroutines. Contexts are created for an explicit protocol
// name or, when none is given, for the process-wide default protocol kept
// by the protocol package.
//
// Socket factories obtained from a Factory are wrapped so that every
// connection or listener they produce is restricted to the enabled
// protocol set: the live registry set when no explicit protocol was
// requested, or exactly the requested protocol when one was.
//
// The cryptographic provider is pluggable. The default provider is backed
// by crypto/tls; alternative providers implement the Provider interface.
package sectx
