package sockets

import (
	"context"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"github.com/secdial/secdial/pkg/logging"
)

// EnforcingSocketFactory wraps a delegate SocketFactory so that every
// connection it produces has the desired protocol set applied before being
// returned. All creation variants of the delegate are forwarded; only the
// returned connection is post-processed.
type EnforcingSocketFactory struct {
	delegate SocketFactory
	desired  DesiredProtocols
	logger   *slog.Logger
}

// NewEnforcingSocketFactory wraps delegate. A nil desired source enforces
// the shared registry's enabled set; a nil logger discards enforcement
// warnings.
func NewEnforcingSocketFactory(delegate SocketFactory, desired DesiredProtocols, logger *slog.Logger) *EnforcingSocketFactory {
	if desired == nil {
		desired = RegistryProtocols(nil)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &EnforcingSocketFactory{delegate: delegate, desired: desired, logger: logger}
}

// Dial creates a connection through the delegate and enforces the desired
// protocol set on it.
func (f *EnforcingSocketFactory) Dial(network, address string) (net.Conn, error) {
	return f.DialContext(context.Background(), network, address)
}

// DialContext creates a connection through the delegate and enforces the
// desired protocol set on it. On an empty intersection the connection is
// closed and the error returned; no half-configured connection escapes.
func (f *EnforcingSocketFactory) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := f.delegate.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}

	logger := f.logger.With("conn_id", uuid.NewString(), "remote", address)
	if err := ApplyEnabledProtocols(conn, f.desired(), logger); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// EnforcingServerSocketFactory wraps a delegate ServerSocketFactory so
// that listeners it produces restrict the protocols of the connections
// they accept.
type EnforcingServerSocketFactory struct {
	delegate ServerSocketFactory
	desired  DesiredProtocols
	logger   *slog.Logger
}

// NewEnforcingServerSocketFactory wraps delegate; nil arguments default as
// in NewEnforcingSocketFactory.
func NewEnforcingServerSocketFactory(delegate ServerSocketFactory, desired DesiredProtocols, logger *slog.Logger) *EnforcingServerSocketFactory {
	if desired == nil {
		desired = RegistryProtocols(nil)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &EnforcingServerSocketFactory{delegate: delegate, desired: desired, logger: logger}
}

// Listen creates a listener through the delegate. Listeners exposing
// protocol controls are enforced once, up front; any other listener is
// wrapped so each accepted connection is enforced individually.
func (f *EnforcingServerSocketFactory) Listen(network, address string) (net.Listener, error) {
	ln, err := f.delegate.Listen(network, address)
	if err != nil {
		return nil, err
	}

	if _, ok := ln.(SecureListener); ok {
		if err := ApplyListenerEnabledProtocols(ln, f.desired(), f.logger); err != nil {
			_ = ln.Close()
			return nil, err
		}
		return ln, nil
	}
	return &enforcingListener{Listener: ln, desired: f.desired, logger: f.logger}, nil
}

// enforcingListener applies the desired set to each accepted connection.
type enforcingListener struct {
	net.Listener
	desired DesiredProtocols
	logger  *slog.Logger
}

func (l *enforcingListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}

	logger := l.logger.With("conn_id", uuid.NewString(), "remote", conn.RemoteAddr().String())
	if err := ApplyEnabledProtocols(conn, l.desired(), logger); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
