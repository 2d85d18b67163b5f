package sectx

import (
	"log/slog"

	"github.com/secdial/secdial/pkg/logging"
	"github.com/secdial/secdial/pkg/protocol"
	"github.com/secdial/secdial/pkg/sockets"
)

// Factory creates secure contexts and protocol-enforcing socket factories
// from a fixed set of key and trust capabilities. A Factory is immutable
// after construction and safe to share across goroutines.
type Factory struct {
	keys     []KeyProvider
	trusts   []TrustProvider
	provider Provider
	registry *protocol.Registry
	logger   *slog.Logger
}

// Option configures a Factory at construction time.
type Option func(*Factory)

// WithKeys supplies the certificates the factory's contexts present to the
// peer. An empty collection is treated as absent: the runtime's default
// behavior applies and no certificate is presented.
func WithKeys(keys ...KeyProvider) Option {
	return func(f *Factory) { f.keys = normalizeKeys(keys) }
}

// WithTrust supplies the trust deciders for peer certificates. Providers
// are consulted in order and the first to grant trust wins; if all reject,
// the last error is surfaced by the handshake. An empty collection is
// treated as absent: the runtime's default chain validation applies.
//
// Trust material makes server contexts mutual-TLS: listeners require the
// client to present a certificate so the deciders have something to judge.
func WithTrust(trusts ...TrustProvider) Option {
	return func(f *Factory) { f.trusts = normalizeTrust(trusts) }
}

// WithProvider selects the cryptographic provider. Defaults to the
// crypto/tls-backed provider.
func WithProvider(p Provider) Option {
	return func(f *Factory) {
		if p != nil {
			f.provider = p
		}
	}
}

// WithRegistry selects the protocol registry consulted for the default
// protocol and enabled set. Defaults to the process-wide shared registry.
func WithRegistry(r *protocol.Registry) Option {
	return func(f *Factory) {
		if r != nil {
			f.registry = r
		}
	}
}

// WithLogger sets the logger used for enforcement diagnostics. Defaults to
// a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Factory. Without options the factory presents no
// certificate to the peer and trusts whatever the runtime's default
// validation trusts.
func New(opts ...Option) *Factory {
	f := &Factory{
		provider: DefaultProvider(),
		registry: protocol.SharedRegistry(),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Keys returns the configured key providers, or nil if none were supplied.
func (f *Factory) Keys() []KeyProvider { return normalizeKeys(f.keys) }

// Trust returns the configured trust providers, or nil if none were
// supplied.
func (f *Factory) Trust() []TrustProvider { return normalizeTrust(f.trusts) }

// Context creates an initialized secure context for the registry's current
// default protocol.
func (f *Factory) Context() (Context, error) {
	return f.ContextFor(f.registry.DefaultProtocol())
}

// ContextFor creates an initialized secure context for an explicit
// protocol name. An unsupported protocol or a failure binding the key or
// trust material is reported as a *ConfigError; registry state is never
// modified.
func (f *Factory) ContextFor(protocolName string) (Context, error) {
	if protocolName == "" {
		return nil, &ConfigError{Protocol: protocolName, Provider: f.provider.Name(), Err: protocol.ErrEmptyDefaultProtocol}
	}
	return f.provider.NewContext(protocolName, f.keys, f.trusts)
}

// SocketFactory returns a socket factory for the default protocol whose
// connections are restricted to the registry's enabled set, evaluated at
// each dial.
func (f *Factory) SocketFactory() (sockets.SocketFactory, error) {
	ctx, err := f.Context()
	if err != nil {
		return nil, err
	}
	return sockets.NewEnforcingSocketFactory(
		ctx.SocketFactory(), sockets.RegistryProtocols(f.registry), f.logger), nil
}

// SocketFactoryFor returns a socket factory pinned to exactly the given
// protocol: connections it produces enable that protocol alone.
func (f *Factory) SocketFactoryFor(protocolName string) (sockets.SocketFactory, error) {
	ctx, err := f.ContextFor(protocolName)
	if err != nil {
		return nil, err
	}
	return sockets.NewEnforcingSocketFactory(
		ctx.SocketFactory(), sockets.FixedProtocols(protocolName), f.logger), nil
}

// ServerSocketFactory returns a listener factory for the default protocol
// whose listeners are restricted to the registry's enabled set.
func (f *Factory) ServerSocketFactory() (sockets.ServerSocketFactory, error) {
	ctx, err := f.Context()
	if err != nil {
		return nil, err
	}
	return sockets.NewEnforcingServerSocketFactory(
		ctx.ServerSocketFactory(), sockets.RegistryProtocols(f.registry), f.logger), nil
}

// ServerSocketFactoryFor returns a listener factory pinned to exactly the
// given protocol.
func (f *Factory) ServerSocketFactoryFor(protocolName string) (sockets.ServerSocketFactory, error) {
	ctx, err := f.ContextFor(protocolName)
	if err != nil {
		return nil, err
	}
	return sockets.NewEnforcingServerSocketFactory(
		ctx.ServerSocketFactory(), sockets.FixedProtocols(protocolName), f.logger), nil
}
