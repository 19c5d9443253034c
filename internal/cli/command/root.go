package command

import (
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/certmesh-go/internal/cli/output"
	"github.com/yndnr/certmesh-go/internal/config"
	"github.com/yndnr/certmesh-go/internal/infra/buildinfo"
	"github.com/yndnr/certmesh-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "certmesh-cli",
		Usage:   "Local TLS certificate bootstrapper",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			BootstrapCommand(),
			VerifyCommand(),
			InspectCommand(),
			ExportCommand(),
			RestoreCommand(),
			CleanCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML configuration file",
			EnvVars: []string{"CERTMESH_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// loadConfig loads the configuration stack for a command invocation.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.Bool("verbose") {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the command logger from the loaded configuration.
// CLI logs go to stderr so formatted output stays clean on stdout.
func newLogger(c *cli.Context, cfg *config.Config) *slog.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
}

// rescratch moves the scratch directory and re-resolves every default
// artifact path under it. Explicit per-file env overrides are reset.
func rescratch(cfg *config.Config, dir string) {
	p := &cfg.Paths
	p.ScratchDir = dir
	p.CAKey, p.CACrt, p.CASerial = "", "", ""
	p.ServerKey, p.ServerCSR, p.ServerCrt = "", "", ""
	p.ClientKey, p.ClientCSR, p.ClientCrt = "", "", ""
	cfg.Resolve()
}

// formatter returns the output formatter selected by -o.
func formatter(c *cli.Context) output.Formatter {
	return output.NewFormatter(output.Format(c.String("output")))
}
