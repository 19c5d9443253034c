package pki

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
)

// Fixed subject fields for leaf CSRs. Only the Common Name varies.
const (
	subjectCountry  = "US"
	subjectProvince = "Local"
	subjectLocality = "Local"
)

// LeafSubject returns the fixed leaf subject with the given Common Name.
func LeafSubject(commonName string) pkix.Name {
	return pkix.Name{
		Country:      []string{subjectCountry},
		Province:     []string{subjectProvince},
		Locality:     []string{subjectLocality},
		Organization: []string{Organization},
		CommonName:   commonName,
	}
}

// NewRequest creates a PEM-encoded certificate signing request for the
// given key, signed with SHA-256.
func NewRequest(key *rsa.PrivateKey, commonName string) ([]byte, error) {
	template := x509.CertificateRequest{
		Subject:            LeafSubject(commonName),
		SignatureAlgorithm: x509.SHA256WithRSA,
	}

	der, err := x509.CreateCertificateRequest(rand.Reader, &template, key)
	if err != nil {
		return nil, fmt.Errorf("pki: create certificate request: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE REQUEST",
		Bytes: der,
	}), nil
}

// ParseRequestPEM parses a PEM-encoded CSR and checks its signature.
func ParseRequestPEM(data []byte) (*x509.CertificateRequest, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEM
	}

	csr, err := x509.ParseCertificateRequest(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("pki: parse certificate request: %w", err)
	}
	if err := csr.CheckSignature(); err != nil {
		return nil, fmt.Errorf("pki: invalid CSR signature: %w", err)
	}

	return csr, nil
}
