package pki

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// File modes for written artifacts.
const (
	KeyFileMode  = 0o600
	CertFileMode = 0o644
)

// EncodeCertPEM encodes certificate DER bytes as PEM.
func EncodeCertPEM(der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: der,
	})
}

// ParseCertPEM parses a single PEM-encoded certificate.
func ParseCertPEM(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, ErrInvalidPEM
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("pki: parse certificate: %w", err)
	}
	return cert, nil
}

// ParseCertFile parses a PEM certificate from disk.
func ParseCertFile(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pki: read certificate %s: %w", path, err)
	}
	return ParseCertPEM(data)
}

// WriteKeyFile writes private key PEM with restrictive permissions.
func WriteKeyFile(path string, keyPEM []byte) error {
	if err := os.WriteFile(path, keyPEM, KeyFileMode); err != nil {
		return fmt.Errorf("pki: write key %s: %w", path, err)
	}
	return nil
}

// WriteCertFile writes certificate (or CSR) PEM world-readable.
func WriteCertFile(path string, certPEM []byte) error {
	if err := os.WriteFile(path, certPEM, CertFileMode); err != nil {
		return fmt.Errorf("pki: write certificate %s: %w", path, err)
	}
	return nil
}
