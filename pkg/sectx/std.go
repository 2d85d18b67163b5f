package sectx

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/secdial/secdial/pkg/protocol"
	"github.com/secdial/secdial/pkg/sockets"
)

// DefaultProvider returns the provider backed by the runtime's crypto/tls
// stack.
func DefaultProvider() Provider { return stdProvider{} }

const stdProviderName = "crypto/tls"

type stdProvider struct{}

func (stdProvider) Name() string { return stdProviderName }

// NewContext builds a context whose connections negotiate protocols from
// TLSv1 up to the requested protocol version, mirroring how a context
// created for a named protocol behaves in other TLS stacks. The enabled
// set is narrowed afterwards by protocol enforcement.
func (stdProvider) NewContext(protocolName string, keys []KeyProvider, trusts []TrustProvider) (Context, error) {
	version, ok := protocol.VersionID(protocolName)
	if !ok {
		return nil, &ConfigError{
			Protocol: protocolName,
			Provider: stdProviderName,
			Err:      errors.New("unknown protocol name"),
		}
	}
	if version < tls.VersionTLS10 {
		return nil, &ConfigError{
			Protocol: protocolName,
			Provider: stdProviderName,
			Err:      errors.New("protocol is no longer supported by the runtime"),
		}
	}

	base := &tls.Config{
		MinVersion: tls.VersionTLS10,
		MaxVersion: version,
	}

	// A zero-length collection counts as absent, exactly like nil. Trust
	// in particular must never take the custom branch with no deciders:
	// verifyWith over an empty list would approve every peer.
	if len(keys) > 0 {
		var certs []tls.Certificate
		for _, k := range keys {
			cs, err := k.Certificates()
			if err != nil {
				return nil, &ConfigError{
					Protocol: protocolName,
					Provider: stdProviderName,
					Err:      fmt.Errorf("binding key material: %w", err),
				}
			}
			certs = append(certs, cs...)
		}
		base.Certificates = certs
	}

	if len(trusts) > 0 {
		// Chain validation is delegated entirely to the supplied trust
		// capabilities, so the stack's own verification is disabled.
		// Server-side, the peer must then present a certificate for the
		// deciders to judge, which makes such contexts mutual-TLS.
		base.InsecureSkipVerify = true //nolint:gosec // replaced by VerifyPeerCertificate below
		base.VerifyPeerCertificate = verifyWith(trusts)
		base.ClientAuth = tls.RequireAnyClientCert
	}

	return &stdContext{protocolName: protocolName, maxVersion: version, base: base}, nil
}

// verifyWith consults the trust providers in order; the first to grant
// trust wins, and if all reject the last error is returned.
func verifyWith(trusts []TrustProvider) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		var err error
		for _, t := range trusts {
			if err = t.VerifyPeer(rawCerts); err == nil {
				return nil
			}
		}
		return err
	}
}

type stdContext struct {
	protocolName string
	maxVersion   uint16
	base         *tls.Config
}

func (c *stdContext) Protocol() string { return c.protocolName }

func (c *stdContext) SocketFactory() sockets.SocketFactory {
	return &stdSocketFactory{ctx: c}
}

func (c *stdContext) ServerSocketFactory() sockets.ServerSocketFactory {
	return &stdServerSocketFactory{ctx: c}
}

// supportedProtocols lists the names this context could negotiate, ordered
// oldest first.
func (c *stdContext) supportedProtocols() []string {
	var names []string
	for _, name := range protocol.SupportedProtocols() {
		if id, ok := protocol.VersionID(name); ok && id <= c.maxVersion {
			names = append(names, name)
		}
	}
	return names
}

type stdSocketFactory struct {
	ctx *stdContext
}

func (f *stdSocketFactory) Dial(network, address string) (net.Conn, error) {
	return f.DialContext(context.Background(), network, address)
}

func (f *stdSocketFactory) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}

	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}
	cfg := f.ctx.base.Clone()
	cfg.ServerName = host

	return newConn(raw, cfg, f.ctx), nil
}

// Conn is the client connection produced by the default provider. The TLS
// handshake is deferred until the first read, write or explicit Handshake
// call, which leaves a window for protocol enforcement to adjust the
// enabled versions.
type Conn struct {
	raw net.Conn
	ctx *stdContext

	mu      sync.Mutex
	cfg     *tls.Config
	enabled []string
	tc      *tls.Conn
}

var _ sockets.SecureConn = (*Conn)(nil)

func newConn(raw net.Conn, cfg *tls.Config, ctx *stdContext) *Conn {
	return &Conn{
		raw:     raw,
		ctx:     ctx,
		cfg:     cfg,
		enabled: ctx.supportedProtocols(),
	}
}

// ensure creates the TLS client connection on first use.
func (c *Conn) ensure() *tls.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tc == nil {
		c.tc = tls.Client(c.raw, c.cfg)
	}
	return c.tc
}

func (c *Conn) Read(b []byte) (int, error)  { return c.ensure().Read(b) }
func (c *Conn) Write(b []byte) (int, error) { return c.ensure().Write(b) }

func (c *Conn) Close() error {
	c.mu.Lock()
	tc := c.tc
	c.mu.Unlock()
	if tc != nil {
		return tc.Close()
	}
	return c.raw.Close()
}

func (c *Conn) LocalAddr() net.Addr                { return c.raw.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr               { return c.raw.RemoteAddr() }
func (c *Conn) SetDeadline(t time.Time) error      { return c.raw.SetDeadline(t) }
func (c *Conn) SetReadDeadline(t time.Time) error  { return c.raw.SetReadDeadline(t) }
func (c *Conn) SetWriteDeadline(t time.Time) error { return c.raw.SetWriteDeadline(t) }

// Handshake runs the TLS handshake if it has not run yet.
func (c *Conn) Handshake(ctx context.Context) error {
	return c.ensure().HandshakeContext(ctx)
}

// ConnectionState reports the state of the handshake. The second return
// value is false if the handshake has not started.
func (c *Conn) ConnectionState() (tls.ConnectionState, bool) {
	c.mu.Lock()
	tc := c.tc
	c.mu.Unlock()
	if tc == nil {
		return tls.ConnectionState{}, false
	}
	return tc.ConnectionState(), true
}

// SupportedProtocols reports every protocol version this connection's
// context could negotiate.
func (c *Conn) SupportedProtocols() []string {
	return c.ctx.supportedProtocols()
}

// EnabledProtocols reports the versions the connection will currently
// offer.
func (c *Conn) EnabledProtocols() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.enabled))
	copy(out, c.enabled)
	return out
}

// SetEnabledProtocols restricts the versions offered during the handshake.
// It fails once the handshake has started. crypto/tls negotiates
// contiguous version ranges, so a sparse set is widened to the range
// between its lowest and highest member.
func (c *Conn) SetEnabledProtocols(names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tc != nil {
		return errors.New("cannot change enabled protocols after the handshake has started")
	}

	minVersion, maxVersion, err := versionRange(names)
	if err != nil {
		return err
	}
	c.cfg.MinVersion = minVersion
	c.cfg.MaxVersion = maxVersion
	c.enabled = make([]string, len(names))
	copy(c.enabled, names)
	return nil
}

// versionRange maps protocol names to the crypto/tls version range that
// covers them.
func versionRange(names []string) (minVersion, maxVersion uint16, err error) {
	if len(names) == 0 {
		return 0, 0, errors.New("no protocols given")
	}
	for _, name := range names {
		id, ok := protocol.VersionID(name)
		if !ok {
			return 0, 0, fmt.Errorf("unknown protocol name %q", name)
		}
		if minVersion == 0 || id < minVersion {
			minVersion = id
		}
		if id > maxVersion {
			maxVersion = id
		}
	}
	return minVersion, maxVersion, nil
}

type stdServerSocketFactory struct {
	ctx *stdContext
}

func (f *stdServerSocketFactory) Listen(network, address string) (net.Listener, error) {
	inner, err := net.Listen(network, address)
	if err != nil {
		return nil, err
	}
	return newListener(inner, f.ctx), nil
}

// Listener is the listener produced by the default provider. Protocol
// restrictions set on the listener apply to every connection it accepts
// afterwards.
type Listener struct {
	inner net.Listener
	ctx   *stdContext

	mu      sync.Mutex
	cfg     *tls.Config
	enabled []string
}

var _ sockets.SecureListener = (*Listener)(nil)

func newListener(inner net.Listener, ctx *stdContext) *Listener {
	return &Listener{
		inner:   inner,
		ctx:     ctx,
		cfg:     ctx.base.Clone(),
		enabled: ctx.supportedProtocols(),
	}
}

func (l *Listener) Accept() (net.Conn, error) {
	raw, err := l.inner.Accept()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	cfg := l.cfg.Clone()
	l.mu.Unlock()
	return tls.Server(raw, cfg), nil
}

func (l *Listener) Close() error   { return l.inner.Close() }
func (l *Listener) Addr() net.Addr { return l.inner.Addr() }

// SupportedProtocols reports every protocol version this listener's
// context could negotiate.
func (l *Listener) SupportedProtocols() []string {
	return l.ctx.supportedProtocols()
}

// EnabledProtocols reports the versions accepted connections will offer.
func (l *Listener) EnabledProtocols() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.enabled))
	copy(out, l.enabled)
	return out
}

// SetEnabledProtocols restricts the versions of connections accepted from
// now on. Connections already accepted are unaffected.
func (l *Listener) SetEnabledProtocols(names []string) error {
	minVersion, maxVersion, err := versionRange(names)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.MinVersion = minVersion
	l.cfg.MaxVersion = maxVersion
	l.enabled = make([]string, len(names))
	copy(l.enabled, names)
	return nil
}
