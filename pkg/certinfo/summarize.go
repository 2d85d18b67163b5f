// Package certinfo formats X.509 certificate fields for logs and
// diagnostics. It never validates certificates and performs no network or
// cryptographic operation.
package certinfo

import (
	"crypto/x509"
	"fmt"
	"strings"
	"time"
)

// generalizedTimeLayout renders timestamps in the generalized-time text
// form (UTC, millisecond precision) used by certificate tooling.
const generalizedTimeLayout = "20060102150405.000Z"

// Summarize renders the certificate's identity fields into a single fixed
// textual record. The layout is stable and relied upon by downstream
// diagnostics:
//
//	Certificate(subject='<RFC2253>', serialNumber=<decimal>,
//	notBefore=<generalized-time>, notAfter=<generalized-time>,
//	signatureAlgorithm='<name>', signatureBytes='<hex>',
//	issuerSubject='<RFC2253>')
//
// The certificate must not be nil.
func Summarize(cert *x509.Certificate) string {
	var b strings.Builder
	b.WriteString("Certificate(subject='")
	b.WriteString(cert.Subject.String())
	b.WriteString("', serialNumber=")
	b.WriteString(cert.SerialNumber.String())
	b.WriteString(", notBefore=")
	b.WriteString(GeneralizedTime(cert.NotBefore))
	b.WriteString(", notAfter=")
	b.WriteString(GeneralizedTime(cert.NotAfter))
	b.WriteString(", signatureAlgorithm='")
	b.WriteString(cert.SignatureAlgorithm.String())
	b.WriteString("', signatureBytes='")
	b.WriteString(HexColon(cert.Signature))
	b.WriteString("', issuerSubject='")
	b.WriteString(cert.Issuer.String())
	b.WriteString("')")
	return b.String()
}

// GeneralizedTime formats t in generalized-time text form, e.g.
// 20260827151004.000Z.
func GeneralizedTime(t time.Time) string {
	return t.UTC().Format(generalizedTimeLayout)
}

// HexColon renders bytes as lowercase colon-delimited hex pairs, e.g.
// 3a:f1:00.
func HexColon(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(data)*3 - 1)
	for i, c := range data {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	return b.String()
}
