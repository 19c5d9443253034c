package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/certmesh-go/internal/config"
	"github.com/yndnr/certmesh-go/internal/pki"
)

// Result describes what a bootstrap run produced.
type Result struct {
	// Skipped is true when the idempotence guard fired and nothing ran.
	Skipped bool `json:"skipped"`

	// RunID identifies this run in logs.
	RunID string `json:"run_id"`

	// Paths of the terminal files in the output directory.
	ServerKey  string `json:"server_key"`
	ServerCert string `json:"server_cert"`
	CACert     string `json:"ca_cert"`
}

// Bootstrapper runs the certificate pipeline described in the package doc.
type Bootstrapper struct {
	cfg *config.Config
	log *slog.Logger
}

// New creates a Bootstrapper for the given configuration.
func New(cfg *config.Config, log *slog.Logger) *Bootstrapper {
	return &Bootstrapper{cfg: cfg, log: log}
}

// Ensure makes the output directory contain a usable server.key,
// server.crt and ca.crt, generating everything when the server key is
// absent and doing nothing when it is already present.
func (b *Bootstrapper) Ensure(ctx context.Context) (*Result, error) {
	paths := &b.cfg.Paths

	result := &Result{
		RunID:      ulid.Make().String(),
		ServerKey:  filepath.Join(paths.OutputDir, config.OutServerKey),
		ServerCert: filepath.Join(paths.OutputDir, config.OutServerCert),
		CACert:     filepath.Join(paths.OutputDir, config.OutCACert),
	}
	log := b.log.With("run_id", result.RunID)

	if _, err := os.Stat(result.ServerKey); err == nil {
		log.Info("server key already present, skipping", "path", result.ServerKey)
		result.Skipped = true
		return result, nil
	}

	log.Info("bootstrapping certificates",
		"common_name", b.cfg.CommonName,
		"scratch_dir", paths.ScratchDir,
		"output_dir", paths.OutputDir,
	)

	if err := b.resetScratch(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ca, err := b.createCA(log)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	serials, err := pki.OpenSerialFile(paths.CASerial)
	if err != nil {
		return nil, err
	}

	if err := b.issuePair(log, ca, serials, "server", paths.ServerKey, paths.ServerCSR, paths.ServerCrt); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := b.issuePair(log, ca, serials, "client", paths.ClientKey, paths.ClientCSR, paths.ClientCrt); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := b.copyOut(result); err != nil {
		return nil, err
	}

	log.Info("bootstrap complete",
		"server_key", result.ServerKey,
		"server_cert", result.ServerCert,
		"ca_cert", result.CACert,
	)
	return result, nil
}

// resetScratch deletes and recreates the scratch directory.
func (b *Bootstrapper) resetScratch() error {
	dir := b.cfg.Paths.ScratchDir
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("bootstrap: clear scratch dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("bootstrap: create scratch dir %s: %w", dir, err)
	}
	return nil
}

// createCA generates a fresh self-signed CA and writes it to the
// configured paths. The CA Common Name is the invoking user's display
// name.
func (b *Bootstrapper) createCA(log *slog.Logger) (*pki.CA, error) {
	cn := pki.CACommonName()

	ca, err := pki.NewCA(cn)
	if err != nil {
		return nil, err
	}

	if err := pki.WriteKeyFile(b.cfg.Paths.CAKey, ca.KeyPEM); err != nil {
		return nil, err
	}
	if err := pki.WriteCertFile(b.cfg.Paths.CACrt, ca.CertPEM); err != nil {
		return nil, err
	}

	log.Info("created CA",
		"common_name", cn,
		"serial", ca.Cert.SerialNumber.Text(16),
		"not_after", ca.Cert.NotAfter,
	)
	return ca, nil
}

// issuePair generates a key, builds a CSR and has the CA sign it,
// writing all three artifacts.
func (b *Bootstrapper) issuePair(log *slog.Logger, ca *pki.CA, serials *pki.SerialFile, role, keyPath, csrPath, certPath string) error {
	key, err := pki.GenerateKey()
	if err != nil {
		return fmt.Errorf("bootstrap: generate %s key: %w", role, err)
	}
	if err := pki.WriteKeyFile(keyPath, pki.EncodeKeyPEM(key)); err != nil {
		return err
	}

	csrPEM, err := pki.NewRequest(key, b.cfg.CommonName)
	if err != nil {
		return fmt.Errorf("bootstrap: create %s request: %w", role, err)
	}
	if err := pki.WriteCertFile(csrPath, csrPEM); err != nil {
		return err
	}

	certPEM, err := pki.Issue(ca, csrPEM, serials)
	if err != nil {
		return fmt.Errorf("bootstrap: issue %s certificate: %w", role, err)
	}
	if err := pki.WriteCertFile(certPath, certPEM); err != nil {
		return err
	}

	log.Info("issued certificate", "role", role, "common_name", b.cfg.CommonName)
	return nil
}

// copyOut copies the terminal files into the output directory,
// overwriting whatever is there.
func (b *Bootstrapper) copyOut(result *Result) error {
	paths := &b.cfg.Paths

	if err := copyFile(paths.ServerKey, result.ServerKey, pki.KeyFileMode); err != nil {
		return err
	}
	if err := copyFile(paths.ServerCrt, result.ServerCert, pki.CertFileMode); err != nil {
		return err
	}
	return copyFile(paths.CACrt, result.CACert, pki.CertFileMode)
}

func copyFile(src, dst string, mode os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("bootstrap: read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, mode); err != nil {
		return fmt.Errorf("bootstrap: copy to %s: %w", dst, err)
	}
	return nil
}
