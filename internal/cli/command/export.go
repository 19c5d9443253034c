package command

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/certmesh-go/internal/bundle"
	"github.com/yndnr/certmesh-go/internal/config"
	"github.com/yndnr/certmesh-go/internal/pki"
	"github.com/yndnr/certmesh-go/pkg/crypto/adaptive"
)

// ErrNoPassphrase is returned when no bundle passphrase is configured.
var ErrNoPassphrase = errors.New("no passphrase: set CERTMESH_EXPORT_PASSPHRASE or use --passphrase-file")

// ExportCommand returns the export command.
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Seal the CA key pair into an encrypted bundle file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Bundle file to write (default: certmesh-<id>.bundle)",
			},
			&cli.StringFlag{
				Name:  "algorithm",
				Usage: "Sealing algorithm: aes-gcm, chacha20-poly1305",
			},
			&cli.StringFlag{
				Name:  "passphrase-file",
				Usage: "File containing the bundle passphrase",
			},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	passphrase, err := resolvePassphrase(c, cfg)
	if err != nil {
		return err
	}

	algorithm := adaptive.CipherType(cfg.Export.Algorithm)
	if a := c.String("algorithm"); a != "" {
		algorithm = adaptive.CipherType(a)
	}

	// Parse the pair before sealing so a corrupt CA fails here, not
	// at restore time.
	ca, err := pki.LoadCA(cfg.Paths.CACrt, cfg.Paths.CAKey)
	if err != nil {
		return err
	}

	data, err := bundle.Export(ca.KeyPEM, ca.CertPEM, passphrase, algorithm)
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = bundle.FileName()
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	fmt.Fprintln(c.App.Writer, out)
	return nil
}

// resolvePassphrase reads the bundle passphrase from --passphrase-file
// or, failing that, from the export config (usually the
// CERTMESH_EXPORT_PASSPHRASE environment variable).
func resolvePassphrase(c *cli.Context, cfg *config.Config) ([]byte, error) {
	if file := c.String("passphrase-file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read passphrase file: %w", err)
		}
		return bytes.TrimRight(data, "\r\n"), nil
	}
	if cfg.Export.Passphrase != "" {
		return []byte(cfg.Export.Passphrase), nil
	}
	return nil, ErrNoPassphrase
}
