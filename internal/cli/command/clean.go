package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/certmesh-go/internal/config"
)

// CleanCommand returns the clean command.
func CleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove the scratch directory and copied-out certificate files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip confirmation",
			},
		},
		Action: runClean,
	}
}

func runClean(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	outputs := []string{
		filepath.Join(cfg.Paths.OutputDir, config.OutServerKey),
		filepath.Join(cfg.Paths.OutputDir, config.OutServerCert),
		filepath.Join(cfg.Paths.OutputDir, config.OutCACert),
	}

	if !c.Bool("yes") {
		fmt.Fprintf(c.App.Writer, "This removes %s and the copied certificates. Continue? [y/N]: ", cfg.Paths.ScratchDir)
		var confirm string
		fmt.Fscanln(c.App.Reader, &confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Fprintln(c.App.Writer, "Cancelled.")
			return nil
		}
	}

	if err := os.RemoveAll(cfg.Paths.ScratchDir); err != nil {
		return fmt.Errorf("remove scratch dir: %w", err)
	}
	for _, path := range outputs {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}

	fmt.Fprintln(c.App.Writer, "Cleaned.")
	return nil
}
