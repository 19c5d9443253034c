package config

import "path/filepath"

// Default configuration values.
const (
	DefaultCommonName = "localhost"
	DefaultScratchDir = "certs"
	DefaultOutputDir  = "."

	DefaultProbeAddr = "127.0.0.1:8443"

	DefaultExportAlgorithm = "aes-gcm"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Terminal file names copied into the output directory.
const (
	OutServerKey  = "server.key"
	OutServerCert = "server.crt"
	OutCACert     = "ca.crt"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		CommonName: DefaultCommonName,
		Paths: PathsSection{
			ScratchDir: DefaultScratchDir,
			OutputDir:  DefaultOutputDir,
		},
		Export: ExportSection{
			Algorithm: DefaultExportAlgorithm,
		},
		Probe: ProbeSection{
			Addr: DefaultProbeAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Resolve fills empty artifact paths with their defaults under ScratchDir.
// It is idempotent; explicit overrides (file, env, flags) are left alone.
func (c *Config) Resolve() {
	p := &c.Paths
	def := func(target *string, name string) {
		if *target == "" {
			*target = filepath.Join(p.ScratchDir, name)
		}
	}

	def(&p.CAKey, "ca.key")
	def(&p.CACrt, "ca.crt")
	def(&p.CASerial, "ca.srl")
	def(&p.ServerKey, "server.key")
	def(&p.ServerCSR, "server.csr")
	def(&p.ServerCrt, "server.crt")
	def(&p.ClientKey, "client.key")
	def(&p.ClientCSR, "client.csr")
	def(&p.ClientCrt, "client.crt")
}
