package tlsroots

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWatcher_InitialLoad(t *testing.T) {
	dir := t.TempDir()
	_, certFile, keyFile := writeTestPair(t, dir, "localhost")

	w, err := NewWatcher(certFile, keyFile, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	cert, err := w.GetCertificate(nil)
	if err != nil {
		t.Fatalf("GetCertificate() error = %v", err)
	}
	if cert == nil {
		t.Fatal("GetCertificate() returned nil after initial load")
	}

	leaf := w.Leaf()
	if leaf == nil {
		t.Fatal("Leaf() returned nil after initial load")
	}
	if leaf.Subject.CommonName != "localhost" {
		t.Errorf("leaf CN = %q, want localhost", leaf.Subject.CommonName)
	}
}

func TestNewWatcher_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewWatcher(dir+"/absent.crt", dir+"/absent.key", WithLogger(discardLogger())); err == nil {
		t.Error("NewWatcher() should fail when the key pair is missing")
	}
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	_, certFile, keyFile := writeTestPair(t, dir, "localhost")

	w, err := NewWatcher(certFile, keyFile,
		WithLogger(discardLogger()),
		WithDebounce(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	before := w.Leaf().SerialNumber

	w.StartAsync()
	defer w.Stop()
	time.Sleep(200 * time.Millisecond)

	// Replace the pair with a fresh one issued in a second directory.
	otherDir := t.TempDir()
	_, newCert, newKey := writeTestPair(t, otherDir, "localhost")
	copyOver(t, newKey, keyFile)
	copyOver(t, newCert, certFile)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if w.Leaf().SerialNumber.Cmp(before) != 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("watcher did not reload the replaced certificate")
}

func copyOver(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", src, err)
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		t.Fatalf("WriteFile(%s): %v", dst, err)
	}
}
