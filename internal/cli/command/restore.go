package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/certmesh-go/internal/bundle"
	"github.com/yndnr/certmesh-go/internal/pki"
)

// RestoreCommand returns the restore command.
func RestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Unseal a bundle back into the scratch directory",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Scratch directory to restore into",
			},
			&cli.StringFlag{
				Name:  "passphrase-file",
				Usage: "File containing the bundle passphrase",
			},
		},
		Action: runRestore,
	}
}

func runRestore(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("restore requires exactly one FILE argument")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if dir := c.String("dir"); dir != "" {
		rescratch(cfg, dir)
	}

	passphrase, err := resolvePassphrase(c, cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}

	payload, err := bundle.Restore(data, passphrase)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Paths.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	if err := pki.WriteKeyFile(cfg.Paths.CAKey, payload.CAKeyPEM); err != nil {
		return err
	}
	if err := pki.WriteCertFile(cfg.Paths.CACrt, payload.CACertPEM); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "restored CA (bundle %s) to %s\n", payload.ID, cfg.Paths.ScratchDir)
	return nil
}
