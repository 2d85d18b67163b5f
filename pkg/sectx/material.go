package sectx

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

// KeyProvider supplies the certificates presented to the peer during the
// handshake. Implementations are opaque to this package; they are queried
// once per context creation.
type KeyProvider interface {
	Certificates() ([]tls.Certificate, error)
}

// TrustProvider decides whether a peer's presented certificate chain is
// trusted. rawCerts holds the DER-encoded certificates in the order the
// peer sent them, leaf first. Returning nil grants trust.
type TrustProvider interface {
	VerifyPeer(rawCerts [][]byte) error
}

// StaticKeys returns a KeyProvider over a fixed set of certificates.
func StaticKeys(certs ...tls.Certificate) KeyProvider {
	return staticKeys(certs)
}

type staticKeys []tls.Certificate

func (k staticKeys) Certificates() ([]tls.Certificate, error) { return k, nil }

// KeyFiles returns a KeyProvider that loads a PEM certificate/key pair
// from disk each time a context is created, so rotated files are picked up
// by subsequent contexts.
func KeyFiles(certFile, keyFile string) KeyProvider {
	return &keyFiles{certFile: certFile, keyFile: keyFile}
}

type keyFiles struct {
	certFile string
	keyFile  string
}

func (k *keyFiles) Certificates() ([]tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(k.certFile, k.keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load key pair: %w", err)
	}
	return []tls.Certificate{cert}, nil
}

// TrustRoots returns a TrustProvider that accepts chains verifiable
// against the given root pool. Certificates after the leaf are offered as
// intermediates.
func TrustRoots(roots *x509.CertPool) TrustProvider {
	return &rootsTrust{roots: roots}
}

type rootsTrust struct {
	roots *x509.CertPool
}

func (t *rootsTrust) VerifyPeer(rawCerts [][]byte) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("peer presented no certificates")
	}

	leaf, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("failed to parse peer certificate: %w", err)
	}

	intermediates := x509.NewCertPool()
	for _, raw := range rawCerts[1:] {
		cert, err := x509.ParseCertificate(raw)
		if err != nil {
			return fmt.Errorf("failed to parse intermediate certificate: %w", err)
		}
		intermediates.AddCert(cert)
	}

	_, err = leaf.Verify(x509.VerifyOptions{
		Roots:         t.roots,
		Intermediates: intermediates,
	})
	return err
}

// TrustAll returns a TrustProvider that accepts any peer certificate
// without validation. It defeats the purpose of TLS and exists for tests
// and explicitly insecure diagnostics only.
func TrustAll() TrustProvider {
	return trustAll{}
}

type trustAll struct{}

func (trustAll) VerifyPeer([][]byte) error { return nil }

// normalizeKeys stores an absent or zero-length collection as nil so the
// runtime's own default behavior applies when no material was supplied.
func normalizeKeys(keys []KeyProvider) []KeyProvider {
	if len(keys) == 0 {
		return nil
	}
	out := make([]KeyProvider, len(keys))
	copy(out, keys)
	return out
}

func normalizeTrust(trusts []TrustProvider) []TrustProvider {
	if len(trusts) == 0 {
		return nil
	}
	out := make([]TrustProvider, len(trusts))
	copy(out, trusts)
	return out
}
