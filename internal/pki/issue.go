package pki

import (
	"crypto/rand"
	"crypto/x509"
	"fmt"
	"net"
	"time"
)

// LoopbackIP is the IP subjectAltName stamped on every issued leaf.
var LoopbackIP = net.ParseIP("127.0.0.1")

// Issue signs a PEM-encoded CSR with the CA and returns the certificate
// as PEM. The issued certificate carries a subjectAltName extension of
// exactly DNS:<csr common name> and IP:127.0.0.1 and is valid for
// LeafValidityDays. Serial numbers come from the CA serial file.
func Issue(ca *CA, csrPEM []byte, serials *SerialFile) ([]byte, error) {
	csr, err := ParseRequestPEM(csrPEM)
	if err != nil {
		return nil, err
	}

	serial, err := serials.Next()
	if err != nil {
		return nil, err
	}

	template := x509.Certificate{
		SerialNumber:       serial,
		Subject:            csr.Subject,
		NotBefore:          time.Now().Add(-1 * time.Hour),
		NotAfter:           time.Now().AddDate(0, 0, LeafValidityDays),
		KeyUsage:           x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:        []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		DNSNames:           []string{csr.Subject.CommonName},
		IPAddresses:        []net.IP{LoopbackIP},
		SignatureAlgorithm: x509.SHA256WithRSA,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, ca.Cert, csr.PublicKey, ca.Key)
	if err != nil {
		return nil, fmt.Errorf("pki: sign certificate: %w", err)
	}

	return EncodeCertPEM(der), nil
}
