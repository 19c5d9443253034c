package pki

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// KeyBits is the RSA modulus size for every generated key.
const KeyBits = 2048

// PEM parsing errors.
var (
	ErrInvalidPEM = errors.New("pki: invalid PEM data")
	ErrNotRSAKey  = errors.New("pki: private key is not RSA")
)

// GenerateKey generates a 2048-bit RSA private key.
func GenerateKey() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return nil, fmt.Errorf("pki: generate rsa key: %w", err)
	}
	return key, nil
}

// EncodeKeyPEM encodes a private key as PKCS#1 PEM.
func EncodeKeyPEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// ParseKeyPEM parses a PEM-encoded RSA private key.
// PKCS#1 is expected; PKCS#8 wrapping is accepted as a fallback.
func ParseKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEM
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return key, nil
	}

	if k, perr := x509.ParsePKCS8PrivateKey(block.Bytes); perr == nil {
		if rk, ok := k.(*rsa.PrivateKey); ok {
			return rk, nil
		}
		return nil, ErrNotRSAKey
	}

	return nil, fmt.Errorf("pki: parse private key: %w", err)
}
