package bootstrap

import (
	"context"
	"crypto/x509"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/yndnr/certmesh-go/internal/config"
	"github.com/yndnr/certmesh-go/internal/pki"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.ScratchDir = filepath.Join(t.TempDir(), "certs")
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Resolve()
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsure_FullRun(t *testing.T) {
	cfg := testConfig(t)

	result, err := New(cfg, testLogger()).Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if result.Skipped {
		t.Fatal("first run should not be skipped")
	}
	if result.RunID == "" {
		t.Error("RunID should be set")
	}

	// All scratch artifacts exist.
	for _, name := range []string{
		"ca.key", "ca.crt", "ca.srl",
		"server.key", "server.csr", "server.crt",
		"client.key", "client.csr", "client.crt",
	} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.ScratchDir, name)); err != nil {
			t.Errorf("missing scratch artifact %s: %v", name, err)
		}
	}

	// Terminal files copied to the output directory.
	for _, path := range []string{result.ServerKey, result.ServerCert, result.CACert} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing output file %s: %v", path, err)
		}
	}

	// Both leaves chain to the CA produced in this run.
	caCert, err := pki.ParseCertFile(result.CACert)
	if err != nil {
		t.Fatalf("ParseCertFile(ca) error = %v", err)
	}
	roots := x509.NewCertPool()
	roots.AddCert(caCert)
	for _, leaf := range []string{cfg.Paths.ServerCrt, cfg.Paths.ClientCrt} {
		cert, err := pki.ParseCertFile(leaf)
		if err != nil {
			t.Fatalf("ParseCertFile(%s) error = %v", leaf, err)
		}
		if _, err := cert.Verify(x509.VerifyOptions{Roots: roots, DNSName: "localhost"}); err != nil {
			t.Errorf("%s does not chain to CA: %v", leaf, err)
		}
	}
}

func TestEnsure_FileModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	cfg := testConfig(t)

	result, err := New(cfg, testLogger()).Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	checkMode := func(path string, want os.FileMode) {
		t.Helper()
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat(%s): %v", path, err)
		}
		if got := info.Mode().Perm(); got != want {
			t.Errorf("%s mode = %o, want %o", path, got, want)
		}
	}

	checkMode(cfg.Paths.ServerKey, pki.KeyFileMode)
	checkMode(cfg.Paths.ClientKey, pki.KeyFileMode)
	checkMode(result.ServerKey, pki.KeyFileMode)
	checkMode(result.ServerCert, pki.CertFileMode)
	checkMode(result.CACert, pki.CertFileMode)
}

func TestEnsure_Idempotent(t *testing.T) {
	cfg := testConfig(t)
	b := New(cfg, testLogger())

	first, err := b.Ensure(context.Background())
	if err != nil {
		t.Fatalf("first Ensure() error = %v", err)
	}
	before, err := os.ReadFile(first.ServerKey)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	second, err := b.Ensure(context.Background())
	if err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}
	if !second.Skipped {
		t.Error("second run should be skipped")
	}

	after, err := os.ReadFile(first.ServerKey)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(before) != string(after) {
		t.Error("skipped run must not touch existing server key")
	}
}

func TestEnsure_CustomCommonName(t *testing.T) {
	cfg := testConfig(t)
	cfg.CommonName = "example.test"

	_, err := New(cfg, testLogger()).Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	cert, err := pki.ParseCertFile(cfg.Paths.ServerCrt)
	if err != nil {
		t.Fatalf("ParseCertFile() error = %v", err)
	}
	if cert.Subject.CommonName != "example.test" {
		t.Errorf("CN = %q, want example.test", cert.Subject.CommonName)
	}
	if len(cert.DNSNames) != 1 || cert.DNSNames[0] != "example.test" {
		t.Errorf("DNSNames = %v, want [example.test]", cert.DNSNames)
	}
}

func TestEnsure_ScratchRecreated(t *testing.T) {
	cfg := testConfig(t)

	// Pre-populate scratch with a stale file; the run must wipe it.
	if err := os.MkdirAll(cfg.Paths.ScratchDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	stale := filepath.Join(cfg.Paths.ScratchDir, "stale.txt")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := New(cfg, testLogger()).Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("scratch directory was not recreated")
	}
}

func TestEnsure_FailureSkipsCopyOut(t *testing.T) {
	// Nest the scratch dir below a regular file so the reset step
	// cannot clear the obstruction and creating the dir fails.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := config.Default()
	cfg.Paths.ScratchDir = filepath.Join(blocker, "certs")
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Resolve()

	if _, err := New(cfg, testLogger()).Ensure(context.Background()); err == nil {
		t.Fatal("Ensure() should fail when the scratch dir cannot be created")
	}

	// Nothing must have reached the output directory.
	entries, err := os.ReadDir(cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir should be empty after failure, got %d entries", len(entries))
	}
}

func TestEnsure_ContextCanceled(t *testing.T) {
	cfg := testConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(cfg, testLogger()).Ensure(ctx); err == nil {
		t.Fatal("Ensure() should fail with a canceled context")
	}
}
