package command

import (
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/certmesh-go/internal/cli/output"
	"github.com/yndnr/certmesh-go/internal/infra/tlsroots"
	"github.com/yndnr/certmesh-go/internal/pki"
)

// VerifyCommand returns the verify command.
func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check that the generated certificates are consistent and usable",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Scratch directory holding the artifacts to verify",
			},
		},
		Action: runVerify,
	}
}

// leafCheck is one verified certificate in the report.
type leafCheck struct {
	File   string `json:"file"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func runVerify(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if dir := c.String("dir"); dir != "" {
		rescratch(cfg, dir)
	}

	pool, err := tlsroots.NewBootstrapPool(cfg.Paths.CACrt)
	if err != nil {
		return fmt.Errorf("load CA: %w", err)
	}

	checks := []leafCheck{
		checkLeaf(pool, cfg.CommonName, cfg.Paths.ServerCrt, cfg.Paths.ServerKey),
		checkLeaf(pool, cfg.CommonName, cfg.Paths.ClientCrt, cfg.Paths.ClientKey),
	}

	var failed bool
	for _, check := range checks {
		if check.Status != "ok" {
			failed = true
		}
	}

	switch f := formatter(c).(type) {
	case *output.JSONFormatter:
		if err := f.Format(c.App.Writer, checks); err != nil {
			return err
		}
	default:
		table := &output.Table{Headers: []string{"FILE", "STATUS", "DETAIL"}}
		for _, check := range checks {
			table.AddRow(check.File, check.Status, check.Detail)
		}
		if err := f.Format(c.App.Writer, table); err != nil {
			return err
		}
	}

	if failed {
		return errors.New("verification failed")
	}
	return nil
}

// checkLeaf verifies one certificate/key pair: chain to the CA,
// matching key, RSA strength, validity window and the expected
// subjectAltName entries.
func checkLeaf(pool *tlsroots.Pool, commonName, certFile, keyFile string) leafCheck {
	check := leafCheck{File: certFile, Status: "ok"}
	fail := func(format string, args ...any) leafCheck {
		check.Status = "fail"
		check.Detail = fmt.Sprintf(format, args...)
		return check
	}

	cert, err := pki.ParseCertFile(certFile)
	if err != nil {
		return fail("unreadable: %v", err)
	}

	if _, err := cert.Verify(x509.VerifyOptions{Roots: pool.Pool()}); err != nil {
		return fail("does not chain to CA: %v", err)
	}

	now := time.Now()
	if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
		return fail("outside validity window (%s to %s)", cert.NotBefore, cert.NotAfter)
	}

	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fail("not an RSA certificate")
	}
	if pub.N.BitLen() < pki.KeyBits {
		return fail("weak key: %d bits", pub.N.BitLen())
	}

	key, err := readKey(keyFile)
	if err != nil {
		return fail("key unreadable: %v", err)
	}
	if key.N.Cmp(pub.N) != 0 {
		return fail("key does not match certificate")
	}

	if len(cert.DNSNames) != 1 || cert.DNSNames[0] != commonName {
		return fail("DNS SANs = %v, want [%s]", cert.DNSNames, commonName)
	}
	if len(cert.IPAddresses) != 1 || !cert.IPAddresses[0].Equal(pki.LoopbackIP) {
		return fail("IP SANs = %v, want [127.0.0.1]", cert.IPAddresses)
	}

	check.Detail = fmt.Sprintf("expires %s", cert.NotAfter.Format(time.RFC3339))
	return check
}

func readKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return pki.ParseKeyPEM(data)
}
