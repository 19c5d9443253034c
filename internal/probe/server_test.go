package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/certmesh-go/internal/infra/tlsroots"
	"github.com/yndnr/certmesh-go/internal/pki"
)

// startTestServer bootstraps a key pair, starts a probe server on an
// ephemeral port and returns its base URL plus a client trusting the
// test CA.
func startTestServer(t *testing.T) (string, *http.Client) {
	t.Helper()
	dir := t.TempDir()

	ca, err := pki.NewCA("Probe Test CA")
	if err != nil {
		t.Fatalf("NewCA() error = %v", err)
	}
	serials, err := pki.OpenSerialFile(filepath.Join(dir, "ca.srl"))
	if err != nil {
		t.Fatalf("OpenSerialFile() error = %v", err)
	}
	key, err := pki.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	csrPEM, err := pki.NewRequest(key, "localhost")
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	certPEM, err := pki.Issue(ca, csrPEM, serials)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	caFile := filepath.Join(dir, "ca.crt")
	if err := pki.WriteCertFile(certFile, certPEM); err != nil {
		t.Fatalf("WriteCertFile() error = %v", err)
	}
	if err := pki.WriteKeyFile(keyFile, pki.EncodeKeyPEM(key)); err != nil {
		t.Fatalf("WriteKeyFile() error = %v", err)
	}
	if err := pki.WriteCertFile(caFile, ca.CertPEM); err != nil {
		t.Fatalf("WriteCertFile() error = %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	watcher, err := tlsroots.NewWatcher(certFile, keyFile, tlsroots.WithLogger(log))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	srv := NewServer(ln.Addr().String(), watcher, log)
	go srv.Serve(ln)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	pool, err := tlsroots.NewBootstrapPool(caFile)
	if err != nil {
		t.Fatalf("NewBootstrapPool() error = %v", err)
	}
	tlsCfg := pool.TLSConfig()
	tlsCfg.ServerName = "localhost"
	client := &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsCfg},
		Timeout:   5 * time.Second,
	}

	return fmt.Sprintf("https://%s", ln.Addr().String()), client
}

func TestHealthz(t *testing.T) {
	base, client := startTestServer(t)

	resp, err := client.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestCertz(t *testing.T) {
	base, client := startTestServer(t)

	resp, err := client.Get(base + "/certz")
	if err != nil {
		t.Fatalf("GET /certz error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var info certInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(info.DNSNames) != 1 || info.DNSNames[0] != "localhost" {
		t.Errorf("dns_names = %v, want [localhost]", info.DNSNames)
	}
	if len(info.IPs) != 1 || info.IPs[0] != "127.0.0.1" {
		t.Errorf("ips = %v, want [127.0.0.1]", info.IPs)
	}
	if info.Serial == "" {
		t.Error("serial should be set")
	}
}

func TestPlainHTTPRejected(t *testing.T) {
	base, _ := startTestServer(t)

	// A plain-HTTP client must fail the handshake.
	client := &http.Client{Timeout: 2 * time.Second}
	url := "http://" + base[len("https://"):]
	resp, err := client.Get(url + "/healthz")
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			t.Error("plain HTTP request should not succeed against a TLS listener")
		}
	}
}
