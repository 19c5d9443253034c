package config

// Config is the root configuration for certmesh tools.
type Config struct {
	// CommonName is the Common Name for the server and client leaf
	// certificates. All other subject fields are fixed.
	CommonName string `koanf:"common_name"`

	Paths  PathsSection  `koanf:"paths"`
	Export ExportSection `koanf:"export"`
	Probe  ProbeSection  `koanf:"probe"`
	Log    LogSection    `koanf:"log"`
}

// PathsSection configures filesystem locations.
//
// Artifact paths left empty are resolved under ScratchDir by Resolve.
type PathsSection struct {
	// ScratchDir is the disposable working directory. It is deleted and
	// recreated on every bootstrap run.
	ScratchDir string `koanf:"scratch_dir"`

	// OutputDir is where the terminal files (server.key, server.crt,
	// ca.crt) are copied after a successful run.
	OutputDir string `koanf:"output_dir"`

	CAKey     string `koanf:"ca_key"`
	CACrt     string `koanf:"ca_crt"`
	CASerial  string `koanf:"ca_serial"`
	ServerKey string `koanf:"server_key"`
	ServerCSR string `koanf:"server_csr"`
	ServerCrt string `koanf:"server_crt"`
	ClientKey string `koanf:"client_key"`
	ClientCSR string `koanf:"client_csr"`
	ClientCrt string `koanf:"client_crt"`
}

// ExportSection configures CA bundle export.
type ExportSection struct {
	// Algorithm is the AEAD used to seal exported bundles.
	// Supported: "aes-gcm" (default), "chacha20-poly1305".
	Algorithm string `koanf:"algorithm"`

	// Passphrase protects exported bundles. Usually provided via
	// CERTMESH_EXPORT_PASSPHRASE; never logged.
	Passphrase string `koanf:"passphrase"`
}

// ProbeSection configures the certmesh-probe HTTPS server.
type ProbeSection struct {
	Addr string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
