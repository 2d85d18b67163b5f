package certgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the pair's certificate and private key to PEM files,
// creating parent directories as needed. The key file is written with
// restricted permissions.
func Save(pair *Pair, certPath, keyPath string) error {
	if pair == nil {
		return errors.New("certificate pair cannot be nil")
	}

	if err := os.MkdirAll(filepath.Dir(certPath), 0755); err != nil {
		return fmt.Errorf("failed to create certificate directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0755); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := os.WriteFile(certPath, pair.CertPEM, 0644); err != nil {
		return fmt.Errorf("failed to write certificate file: %w", err)
	}

	if err := os.WriteFile(keyPath, pair.KeyPEM, 0600); err != nil {
		// Don't leave a certificate without its key behind.
		_ = os.Remove(certPath)
		return fmt.Errorf("failed to write key file: %w", err)
	}

	return nil
}

// Load reads a certificate and private key pair from PEM files.
func Load(certPath, keyPath string) (*Pair, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	cert, err := ParseCertPEM(certPEM)
	if err != nil {
		return nil, err
	}

	key, err := parseKeyPEM(keyPEM)
	if err != nil {
		return nil, err
	}

	return &Pair{
		Certificate: cert,
		PrivateKey:  key,
		CertPEM:     certPEM,
		KeyPEM:      keyPEM,
	}, nil
}

// Ensure loads the pair at the given paths, generating and saving a new
// one when either file is missing.
func Ensure(cfg *Config, certPath, keyPath string) (*Pair, error) {
	_, certErr := os.Stat(certPath)
	_, keyErr := os.Stat(keyPath)
	if certErr == nil && keyErr == nil {
		return Load(certPath, keyPath)
	}

	pair, err := SelfSigned(cfg)
	if err != nil {
		return nil, err
	}
	if err := Save(pair, certPath, keyPath); err != nil {
		return nil, err
	}
	return pair, nil
}
