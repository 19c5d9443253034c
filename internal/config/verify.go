package config

import (
	"errors"
	"fmt"
	"net"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if cfg.CommonName == "" {
		return errors.New("common_name is required")
	}
	if cfg.Paths.ScratchDir == "" {
		return errors.New("paths.scratch_dir is required")
	}
	if cfg.Paths.OutputDir == "" {
		return errors.New("paths.output_dir is required")
	}

	switch cfg.Export.Algorithm {
	case "", "aes-gcm", "chacha20-poly1305":
	default:
		return fmt.Errorf("export.algorithm %q is not supported", cfg.Export.Algorithm)
	}

	if cfg.Probe.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Probe.Addr); err != nil {
			return fmt.Errorf("probe.addr %q is not host:port: %w", cfg.Probe.Addr, err)
		}
	}

	return nil
}
