package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/certmesh-go/internal/bootstrap"
	"github.com/yndnr/certmesh-go/internal/cli/output"
	"github.com/yndnr/certmesh-go/internal/config"
)

// BootstrapCommand returns the bootstrap command.
func BootstrapCommand() *cli.Command {
	return &cli.Command{
		Name:  "bootstrap",
		Usage: "Create the CA and server/client certificates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "common-name",
				Aliases: []string{"n"},
				Usage:   "Common Name for the server and client certificates",
			},
			&cli.StringFlag{
				Name:  "scratch-dir",
				Usage: "Disposable working directory for generated artifacts",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"d"},
				Usage:   "Directory receiving server.key, server.crt and ca.crt",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Regenerate even if the server key already exists",
			},
		},
		Action: runBootstrap,
	}
}

func runBootstrap(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if cn := c.String("common-name"); cn != "" {
		cfg.CommonName = cn
	}
	if dir := c.String("scratch-dir"); dir != "" {
		rescratch(cfg, dir)
	}
	if dir := c.String("output-dir"); dir != "" {
		cfg.Paths.OutputDir = dir
	}

	log := newLogger(c, cfg)

	if c.Bool("force") {
		if err := removeOutputs(cfg.Paths.OutputDir); err != nil {
			return err
		}
	}

	result, err := bootstrap.New(cfg, log).Ensure(c.Context)
	if err != nil {
		return err
	}

	switch f := formatter(c).(type) {
	case *output.JSONFormatter:
		return f.Format(c.App.Writer, result)
	default:
		table := &output.Table{Headers: []string{"FILE", "PATH"}}
		table.AddRow("server.key", result.ServerKey)
		table.AddRow("server.crt", result.ServerCert)
		table.AddRow("ca.crt", result.CACert)
		if result.Skipped {
			fmt.Fprintln(c.App.Writer, "Certificates already present, nothing to do.")
		}
		return f.Format(c.App.Writer, table)
	}
}

// removeOutputs deletes the copied-out server key so a forced run
// passes the idempotence guard.
func removeOutputs(outputDir string) error {
	path := filepath.Join(outputDir, config.OutServerKey)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
