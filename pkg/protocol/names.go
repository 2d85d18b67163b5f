package protocol

import (
	"crypto/tls"
	"fmt"
)

// Protocol names as they appear in configuration values and error messages.
// Matching is case-insensitive everywhere these names are compared.
const (
	SSLv3   = "SSLv3"
	TLSv1   = "TLSv1"
	TLSv1_1 = "TLSv1.1"
	TLSv1_2 = "TLSv1.2"
	TLSv1_3 = "TLSv1.3"
)

// versionSSL30 is crypto/tls.VersionSSL30, spelled out because the named
// constant is deprecated. The name table still needs to recognize it.
const versionSSL30 = 0x0300

var versionIDs = map[string]uint16{
	"sslv3":   versionSSL30,
	"tlsv1":   tls.VersionTLS10,
	"tlsv1.1": tls.VersionTLS11,
	"tlsv1.2": tls.VersionTLS12,
	"tlsv1.3": tls.VersionTLS13,
}

var versionNames = map[uint16]string{
	versionSSL30:     SSLv3,
	tls.VersionTLS10: TLSv1,
	tls.VersionTLS11: TLSv1_1,
	tls.VersionTLS12: TLSv1_2,
	tls.VersionTLS13: TLSv1_3,
}

// VersionID returns the crypto/tls version constant for a protocol name.
// Lookup is case-insensitive. The second return value reports whether the
// name is known.
func VersionID(name string) (uint16, bool) {
	id, ok := versionIDs[lower(name)]
	return id, ok
}

// VersionName returns the human-readable protocol name for a crypto/tls
// version constant.
func VersionName(version uint16) string {
	name, ok := versionNames[version]
	if !ok {
		return fmt.Sprintf("TLS-%#04x", version)
	}
	return name
}

// SupportedProtocols returns the protocol names the runtime's TLS stack can
// negotiate, ordered oldest first.
func SupportedProtocols() []string {
	return []string{TLSv1, TLSv1_1, TLSv1_2, TLSv1_3}
}
