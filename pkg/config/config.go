// Package config loads secdial settings from JSON or YAML files, for the
// CLI and for applications embedding the library.
package config

import (
	"crypto/x509"
	"fmt"
	"os"

	"github.com/secdial/secdial/pkg/protocol"
	"github.com/secdial/secdial/pkg/sectx"
)

// EnvConfigPath names the environment variable holding the default
// settings file path used by the CLI.
const EnvConfigPath = "SECDIAL_CONFIG"

// Settings is the on-disk configuration.
type Settings struct {
	// DefaultProtocol, when non-empty, replaces the discovered default
	// protocol.
	DefaultProtocol string `json:"defaultProtocol,omitempty" yaml:"defaultProtocol,omitempty"`

	// EnabledProtocols, when non-empty, replaces the enabled-protocol set.
	EnabledProtocols []string `json:"enabledProtocols,omitempty" yaml:"enabledProtocols,omitempty"`

	// CertFile and KeyFile point at the PEM pair presented to peers.
	CertFile string `json:"certFile,omitempty" yaml:"certFile,omitempty"`
	KeyFile  string `json:"keyFile,omitempty" yaml:"keyFile,omitempty"`

	// CAFile points at a PEM bundle of trusted roots. When empty, the
	// runtime's default validation applies.
	CAFile string `json:"caFile,omitempty" yaml:"caFile,omitempty"`

	// Log settings for the CLI.
	LogLevel  string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
}

// Apply pushes the protocol overrides into the given registry. A nil
// registry means the process-wide shared registry. Fields left empty in
// the file leave the corresponding state untouched.
func (s *Settings) Apply(reg *protocol.Registry) error {
	if reg == nil {
		reg = protocol.SharedRegistry()
	}
	if s.DefaultProtocol != "" {
		if err := reg.SetDefaultProtocol(s.DefaultProtocol); err != nil {
			return err
		}
	}
	if len(s.EnabledProtocols) > 0 {
		reg.SetEnabledProtocols(s.EnabledProtocols)
	}
	return nil
}

// KeyProvider returns the key material named by CertFile/KeyFile, or nil
// when neither is set.
func (s *Settings) KeyProvider() sectx.KeyProvider {
	if s.CertFile == "" && s.KeyFile == "" {
		return nil
	}
	return sectx.KeyFiles(s.CertFile, s.KeyFile)
}

// TrustProvider returns a trust decider over the roots in CAFile, or nil
// when CAFile is not set.
func (s *Settings) TrustProvider() (sectx.TrustProvider, error) {
	if s.CAFile == "" {
		return nil, nil
	}

	pemData, err := os.ReadFile(s.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, fmt.Errorf("no certificates found in CA file: %s", s.CAFile)
	}
	return sectx.TrustRoots(pool), nil
}

// FactoryOptions assembles sectx options from the settings.
func (s *Settings) FactoryOptions() ([]sectx.Option, error) {
	var opts []sectx.Option
	if kp := s.KeyProvider(); kp != nil {
		opts = append(opts, sectx.WithKeys(kp))
	}
	tp, err := s.TrustProvider()
	if err != nil {
		return nil, err
	}
	if tp != nil {
		opts = append(opts, sectx.WithTrust(tp))
	}
	return opts, nil
}
