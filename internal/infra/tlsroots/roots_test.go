package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"path/filepath"
	"testing"

	"github.com/yndnr/certmesh-go/internal/pki"
)

func verifyAgainst(p *Pool, cert *x509.Certificate, dnsName string) error {
	_, err := cert.Verify(x509.VerifyOptions{Roots: p.Pool(), DNSName: dnsName})
	return err
}

// writeTestPair writes a CA plus an issued server key pair into dir and
// returns the CA cert, server cert and server key paths.
func writeTestPair(t *testing.T, dir, commonName string) (caCert, cert, key string) {
	t.Helper()

	ca, err := pki.NewCA("Test CA")
	if err != nil {
		t.Fatalf("NewCA() error = %v", err)
	}
	serials, err := pki.OpenSerialFile(filepath.Join(dir, "ca.srl"))
	if err != nil {
		t.Fatalf("OpenSerialFile() error = %v", err)
	}

	serverKey, err := pki.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	csrPEM, err := pki.NewRequest(serverKey, commonName)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	certPEM, err := pki.Issue(ca, csrPEM, serials)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	caCert = filepath.Join(dir, "ca.crt")
	cert = filepath.Join(dir, "server.crt")
	key = filepath.Join(dir, "server.key")

	if err := pki.WriteCertFile(caCert, ca.CertPEM); err != nil {
		t.Fatalf("WriteCertFile() error = %v", err)
	}
	if err := pki.WriteCertFile(cert, certPEM); err != nil {
		t.Fatalf("WriteCertFile() error = %v", err)
	}
	if err := pki.WriteKeyFile(key, pki.EncodeKeyPEM(serverKey)); err != nil {
		t.Fatalf("WriteKeyFile() error = %v", err)
	}
	return caCert, cert, key
}

func TestNewBootstrapPool(t *testing.T) {
	dir := t.TempDir()
	caCert, certFile, _ := writeTestPair(t, dir, "localhost")

	pool, err := NewBootstrapPool(caCert)
	if err != nil {
		t.Fatalf("NewBootstrapPool() error = %v", err)
	}

	// The issued server cert must verify against the pool.
	cert, err := pki.ParseCertFile(certFile)
	if err != nil {
		t.Fatalf("ParseCertFile() error = %v", err)
	}
	if err := verifyAgainst(pool, cert, "localhost"); err != nil {
		t.Errorf("server cert does not verify against bootstrap pool: %v", err)
	}
}

func TestNewBootstrapPool_MissingFile(t *testing.T) {
	if _, err := NewBootstrapPool(filepath.Join(t.TempDir(), "absent.crt")); err == nil {
		t.Error("NewBootstrapPool() should fail for a missing file")
	}
}

func TestAddCertPEM_NoCerts(t *testing.T) {
	p := NewEmptyPool()
	if err := p.AddCertPEM([]byte("not a certificate")); err != ErrNoCertsFound {
		t.Errorf("AddCertPEM() error = %v, want %v", err, ErrNoCertsFound)
	}
}

func TestTLSConfig(t *testing.T) {
	p := NewEmptyPool()
	cfg := p.TLSConfig()
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %v, want TLS 1.2", cfg.MinVersion)
	}
	if cfg.RootCAs == nil {
		t.Error("RootCAs should be set")
	}
}

func TestMutualTLSConfig(t *testing.T) {
	dir := t.TempDir()
	caCert, certFile, keyFile := writeTestPair(t, dir, "localhost")

	pool, err := NewBootstrapPool(caCert)
	if err != nil {
		t.Fatalf("NewBootstrapPool() error = %v", err)
	}

	cfg, err := pool.MutualTLSConfig(certFile, keyFile)
	if err != nil {
		t.Fatalf("MutualTLSConfig() error = %v", err)
	}
	if cfg.ClientAuth != tls.RequireAndVerifyClientCert {
		t.Errorf("ClientAuth = %v, want RequireAndVerifyClientCert", cfg.ClientAuth)
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("Certificates = %d, want 1", len(cfg.Certificates))
	}
}
