package config

import (
	"fmt"
	"os"

	"github.com/yndnr/certmesh-go/internal/infra/confloader"
)

// Bare (unprefixed) environment overrides. These exist for drop-in
// compatibility with the original shell workflow and take precedence over
// both the config file and the CERTMESH_-prefixed variables.
var bareEnvBindings = map[string]string{
	"COMMON_NAME": "common_name",
	"CA_KEY":      "paths.ca_key",
	"CA_CRT":      "paths.ca_crt",
	"SERVER_KEY":  "paths.server_key",
	"SERVER_CSR":  "paths.server_csr",
	"SERVER_CRT":  "paths.server_crt",
	"CLIENT_KEY":  "paths.client_key",
	"CLIENT_CSR":  "paths.client_csr",
	"CLIENT_CRT":  "paths.client_crt",
}

// Load builds the configuration from defaults, an optional YAML file,
// CERTMESH_-prefixed environment variables, and the bare artifact
// overrides, then validates it and resolves artifact paths.
func Load(file string) (*Config, error) {
	cfg := Default()

	loader := confloader.NewLoader(
		confloader.WithEnvSections("paths", "export", "probe", "log"),
	)

	if file != "" {
		if err := loader.LoadFile(file); err != nil {
			return nil, err
		}
	}
	if err := loader.LoadEnv(); err != nil {
		return nil, err
	}
	if err := loader.LoadMap(bareEnvOverrides()); err != nil {
		return nil, err
	}
	if err := loader.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.Resolve()
	return cfg, nil
}

// bareEnvOverrides collects the set bare environment variables as a
// dotted-key map for the loader.
func bareEnvOverrides() map[string]any {
	m := make(map[string]any)
	for name, key := range bareEnvBindings {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			m[key] = v
		}
	}
	return m
}
