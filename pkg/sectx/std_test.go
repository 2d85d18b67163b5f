package sectx

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secdial/secdial/pkg/certgen"
	"github.com/secdial/secdial/pkg/protocol"
	"github.com/secdial/secdial/pkg/sockets"
)

func TestStdContext_SupportedProtocols(t *testing.T) {
	p := DefaultProvider()

	ctx, err := p.NewContext(protocol.TLSv1_2, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"TLSv1", "TLSv1.1", "TLSv1.2"},
		ctx.(*stdContext).supportedProtocols())

	ctx, err = p.NewContext(protocol.TLSv1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"TLSv1"}, ctx.(*stdContext).supportedProtocols())
}

func TestVersionRange(t *testing.T) {
	minVersion, maxVersion, err := versionRange([]string{"TLSv1.1", "TLSv1.3"})
	require.NoError(t, err)

	// Sparse sets widen to the covering range.
	assert.Equal(t, uint16(tls.VersionTLS11), minVersion)
	assert.Equal(t, uint16(tls.VersionTLS13), maxVersion)

	_, _, err = versionRange([]string{"TLSv9"})
	assert.Error(t, err)

	_, _, err = versionRange(nil)
	assert.Error(t, err)
}

func TestKeyMaterialBindingFailure(t *testing.T) {
	f := New(WithKeys(KeyFiles("does-not-exist.crt", "does-not-exist.key")))

	_, err := f.ContextFor(protocol.TLSv1_2)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorContains(t, err, "binding key material")
}

// startServer listens with the given factory and drives one server-side
// handshake per accepted connection.
func startServer(t *testing.T, f *Factory, protocolName string) string {
	t.Helper()

	lnFactory, err := f.ServerSocketFactoryFor(protocolName)
	require.NoError(t, err)

	ln, err := lnFactory.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				buf := make([]byte, 1)
				_, _ = conn.Read(buf)
			}()
		}
	}()
	return ln.Addr().String()
}

func TestLoopbackHandshake(t *testing.T) {
	pair, err := certgen.SelfSigned(nil)
	require.NoError(t, err)
	cert, err := pair.TLSCertificate()
	require.NoError(t, err)

	addr := startServer(t, New(WithKeys(StaticKeys(cert))), protocol.TLSv1_2)

	client := New(WithTrust(TrustAll()))
	sf, err := client.SocketFactoryFor(protocol.TLSv1_2)
	require.NoError(t, err)

	conn, err := sf.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	sconn, ok := conn.(*Conn)
	require.True(t, ok)

	// Enforcement ran at dial time: only the pinned protocol is offered.
	assert.Equal(t, []string{protocol.TLSv1_2}, sconn.EnabledProtocols())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sconn.Handshake(ctx))

	state, started := sconn.ConnectionState()
	require.True(t, started)
	assert.Equal(t, uint16(tls.VersionTLS12), state.Version)
}

func TestSetEnabledProtocols_AfterHandshakeFails(t *testing.T) {
	pair, err := certgen.SelfSigned(nil)
	require.NoError(t, err)
	cert, err := pair.TLSCertificate()
	require.NoError(t, err)

	addr := startServer(t, New(WithKeys(StaticKeys(cert))), protocol.TLSv1_2)

	client := New(WithTrust(TrustAll()))
	sf, err := client.SocketFactoryFor(protocol.TLSv1_2)
	require.NoError(t, err)

	conn, err := sf.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	sconn := conn.(*Conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sconn.Handshake(ctx))

	// Directly changing protocols now is rejected...
	err = sconn.SetEnabledProtocols([]string{protocol.TLSv1_2})
	require.Error(t, err)

	// ...but redundant enforcement suppresses that rejection, because a
	// usable socket with a non-empty intersection already exists.
	err = sockets.ApplyEnabledProtocols(sconn, protocol.NewSet(protocol.TLSv1_2), nil)
	assert.NoError(t, err)
}

func TestNewContext_EmptyTrustSliceKeepsDefaultValidation(t *testing.T) {
	pair, err := certgen.SelfSigned(nil)
	require.NoError(t, err)
	cert, err := pair.TLSCertificate()
	require.NoError(t, err)

	addr := startServer(t, New(WithKeys(StaticKeys(cert))), protocol.TLSv1_2)

	// A zero-length trust collection must behave like nil: the runtime's
	// default chain validation applies, and a self-signed peer is
	// rejected. It must not be mistaken for "custom trust, no deciders",
	// which would approve everything.
	sctx, err := DefaultProvider().NewContext(protocol.TLSv1_2, nil, []TrustProvider{})
	require.NoError(t, err)

	conn, err := sctx.SocketFactory().Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = conn.(*Conn).Handshake(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "certificate")
}

func TestServerWithTrustRequiresClientCertificate(t *testing.T) {
	pair, err := certgen.SelfSigned(nil)
	require.NoError(t, err)
	cert, err := pair.TLSCertificate()
	require.NoError(t, err)

	// Supplying trust material to a server context makes it mutual-TLS:
	// clients must present a certificate for the deciders to judge.
	addr := startServer(t, New(WithKeys(StaticKeys(cert)), WithTrust(TrustAll())), protocol.TLSv1_2)

	certless := New(WithTrust(TrustAll()))
	sf, err := certless.SocketFactoryFor(protocol.TLSv1_2)
	require.NoError(t, err)

	conn, err := sf.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, conn.(*Conn).Handshake(ctx))

	withCert := New(WithKeys(StaticKeys(cert)), WithTrust(TrustAll()))
	sf, err = withCert.SocketFactoryFor(protocol.TLSv1_2)
	require.NoError(t, err)

	conn2, err := sf.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn2.Close()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	assert.NoError(t, conn2.(*Conn).Handshake(ctx2))
}

func TestTrustProviderRejectionFailsHandshake(t *testing.T) {
	pair, err := certgen.SelfSigned(nil)
	require.NoError(t, err)
	cert, err := pair.TLSCertificate()
	require.NoError(t, err)

	addr := startServer(t, New(WithKeys(StaticKeys(cert))), protocol.TLSv1_2)

	// An empty cert pool trusts nothing, so verification must fail.
	client := New(WithTrust(TrustRoots(x509.NewCertPool())))
	sf, err := client.SocketFactoryFor(protocol.TLSv1_2)
	require.NoError(t, err)

	conn, err := sf.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = conn.(*Conn).Handshake(ctx)
	assert.Error(t, err)
}
