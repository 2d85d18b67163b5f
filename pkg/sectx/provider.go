package sectx

import (
	"github.com/secdial/secdial/pkg/sockets"
)

// Provider creates secure contexts for a named protocol. It is the opaque
// cryptographic capability this package consumes. The default provider is
// backed by crypto/tls; see DefaultProvider.
type Provider interface {
	// Name identifies the provider in error messages.
	Name() string

	// NewContext builds an initialized context for the given protocol
	// name, binding the supplied key and trust material. A nil or empty
	// collection on either side means "use the runtime's built-in
	// default" for that side. Supplying trust material makes server
	// contexts mutual-TLS: accepted connections require a client
	// certificate for the trust deciders to judge.
	NewContext(protocol string, keys []KeyProvider, trusts []TrustProvider) (Context, error)
}

// Context is an initialized secure context. It is immutable and safe for
// concurrent use.
type Context interface {
	// Protocol returns the protocol name the context was created for.
	Protocol() string

	// SocketFactory returns a factory producing client connections secured
	// by this context. The factory is not yet protocol-enforcing; the
	// sectx.Factory wraps it before handing it out.
	SocketFactory() sockets.SocketFactory

	// ServerSocketFactory returns a factory producing listeners secured by
	// this context.
	ServerSocketFactory() sockets.ServerSocketFactory
}
