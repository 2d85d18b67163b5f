package certinfo

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleCert builds a fixed certificate by hand; Summarize only reads
// fields, so no signing is needed.
func sampleCert() *x509.Certificate {
	return &x509.Certificate{
		Subject: pkix.Name{
			CommonName:   "secure.example.com",
			Organization: []string{"Example Corp"},
		},
		Issuer: pkix.Name{
			CommonName:   "Example CA",
			Organization: []string{"Example Corp"},
		},
		SerialNumber:       big.NewInt(12345),
		NotBefore:          time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:           time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		SignatureAlgorithm: x509.SHA256WithRSA,
		Signature:          []byte{0xab, 0x01, 0xff},
	}
}

func TestSummarize_FixedLayout(t *testing.T) {
	got := Summarize(sampleCert())

	want := "Certificate(subject='CN=secure.example.com,O=Example Corp', " +
		"serialNumber=12345, " +
		"notBefore=20170101000000.000Z, " +
		"notAfter=20270101000000.000Z, " +
		"signatureAlgorithm='SHA256-RSA', " +
		"signatureBytes='ab:01:ff', " +
		"issuerSubject='CN=Example CA,O=Example Corp')"
	assert.Equal(t, want, got)
}

func TestSummarize_Stable(t *testing.T) {
	cert := sampleCert()
	first := Summarize(cert)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Summarize(cert))
	}
}

func TestGeneralizedTime(t *testing.T) {
	ts := time.Date(2026, 8, 27, 15, 10, 4, 123_000_000, time.FixedZone("CEST", 2*3600))

	// Rendered in UTC with millisecond precision.
	assert.Equal(t, "20260827131004.123Z", GeneralizedTime(ts))
}

func TestHexColon(t *testing.T) {
	assert.Equal(t, "", HexColon(nil))
	assert.Equal(t, "00", HexColon([]byte{0}))
	assert.Equal(t, "de:ad:be:ef", HexColon([]byte{0xde, 0xad, 0xbe, 0xef}))
}
