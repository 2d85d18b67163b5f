package sockets

import (
	"context"
	"net"
)

// ProtocolControls exposes the protocol-version controls of a secure socket
// implementation. SupportedProtocols reports everything the implementation
// could negotiate; EnabledProtocols reports what it currently will.
type ProtocolControls interface {
	SupportedProtocols() []string
	EnabledProtocols() []string
	SetEnabledProtocols(names []string) error
}

// SecureConn is a network connection whose protocol versions can be
// inspected and restricted before the handshake. Connections that do not
// implement this interface are treated as plain, unencrypted connections
// and left untouched by enforcement.
type SecureConn interface {
	net.Conn
	ProtocolControls
}

// SecureListener is a listener whose protocol versions can be inspected
// and restricted; the restriction applies to every connection it accepts.
type SecureListener interface {
	net.Listener
	ProtocolControls
}

// SocketFactory creates client connections. It is the capability this
// package decorates; the concrete implementation is supplied by a secure
// context (see the sectx package) or by the caller.
type SocketFactory interface {
	Dial(network, address string) (net.Conn, error)
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// ServerSocketFactory creates listeners.
type ServerSocketFactory interface {
	Listen(network, address string) (net.Listener, error)
}
