package command

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/certmesh-go/internal/cli/output"
	"github.com/yndnr/certmesh-go/internal/pki"
)

// InspectCommand returns the inspect command.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print details of PEM certificate files",
		ArgsUsage: "FILE...",
		Action:    runInspect,
	}
}

// certDetails is the inspect output for one certificate.
type certDetails struct {
	File      string    `json:"file"`
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	Serial    string    `json:"serial"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	IsCA      bool      `json:"is_ca"`
	DNSNames  []string  `json:"dns_names,omitempty"`
	IPs       []string  `json:"ips,omitempty"`
}

func runInspect(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("inspect requires at least one FILE argument")
	}

	var details []certDetails
	for _, file := range c.Args().Slice() {
		cert, err := pki.ParseCertFile(file)
		if err != nil {
			return err
		}

		d := certDetails{
			File:      file,
			Subject:   cert.Subject.String(),
			Issuer:    cert.Issuer.String(),
			Serial:    cert.SerialNumber.Text(16),
			NotBefore: cert.NotBefore,
			NotAfter:  cert.NotAfter,
			IsCA:      cert.IsCA,
			DNSNames:  cert.DNSNames,
		}
		for _, ip := range cert.IPAddresses {
			d.IPs = append(d.IPs, ip.String())
		}
		details = append(details, d)
	}

	switch f := formatter(c).(type) {
	case *output.JSONFormatter:
		return f.Format(c.App.Writer, details)
	default:
		table := &output.Table{Headers: []string{"FILE", "SUBJECT", "SERIAL", "NOT AFTER", "CA"}}
		for _, d := range details {
			ca := ""
			if d.IsCA {
				ca = "yes"
			}
			table.AddRow(d.File, d.Subject, d.Serial, d.NotAfter.Format(time.RFC3339), ca)
		}
		return f.Format(c.App.Writer, table)
	}
}
