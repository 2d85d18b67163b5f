package cli

import (
	"fmt"
	"net"
	"time"

	"github.com/secdial/secdial/pkg/certgen"
	"github.com/secdial/secdial/pkg/certinfo"
	"github.com/secdial/secdial/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

var (
	gencertCommonName string
	gencertOrg        string
	gencertHosts      []string
	gencertValidFor   time.Duration
	gencertCA         bool
	gencertCertOut    string
	gencertKeyOut     string
)

// GencertOutput represents JSON output format
type GencertOutput struct {
	CertFile    string `json:"certFile"`
	KeyFile     string `json:"keyFile"`
	Fingerprint string `json:"fingerprint"`
	Summary     string `json:"summary"`
}

var gencertCmd = &cobra.Command{
	Use:   "gencert",
	Short: "Generate a self-signed certificate and key pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := certgen.DefaultConfig()
		cfg.CommonName = gencertCommonName
		cfg.Organization = gencertOrg
		cfg.ValidFor = gencertValidFor
		cfg.IsCA = gencertCA

		if len(gencertHosts) > 0 {
			cfg.DNSNames = nil
			cfg.IPAddresses = nil
			for _, h := range gencertHosts {
				if ip := net.ParseIP(h); ip != nil {
					cfg.IPAddresses = append(cfg.IPAddresses, ip)
				} else {
					cfg.DNSNames = append(cfg.DNSNames, h)
				}
			}
		}

		pair, err := certgen.SelfSigned(cfg)
		if err != nil {
			return fmt.Errorf("failed to generate certificate: %w", err)
		}
		if err := certgen.Save(pair, gencertCertOut, gencertKeyOut); err != nil {
			return fmt.Errorf("failed to save certificate: %w", err)
		}

		out := GencertOutput{
			CertFile:    gencertCertOut,
			KeyFile:     gencertKeyOut,
			Fingerprint: certinfo.Fingerprint(pair.Certificate),
			Summary:     certinfo.Summarize(pair.Certificate),
		}

		if jsonOutput {
			return output.JSON(out)
		}

		fmt.Printf("Wrote %s and %s\n", out.CertFile, out.KeyFile)
		fmt.Printf("Fingerprint: %s\n", out.Fingerprint)
		fmt.Println(out.Summary)
		return nil
	},
}

func init() {
	gencertCmd.Flags().StringVar(&gencertCommonName, "cn", "localhost", "Certificate common name")
	gencertCmd.Flags().StringVar(&gencertOrg, "org", "secdial", "Certificate organization")
	gencertCmd.Flags().StringSliceVar(&gencertHosts, "hosts", nil, "DNS names or IP addresses for the certificate (default: localhost loopback)")
	gencertCmd.Flags().DurationVar(&gencertValidFor, "valid-for", 365*24*time.Hour, "Certificate validity duration")
	gencertCmd.Flags().BoolVar(&gencertCA, "ca", false, "Mark the certificate as a CA")
	gencertCmd.Flags().StringVar(&gencertCertOut, "cert-out", "cert.pem", "Certificate output path")
	gencertCmd.Flags().StringVar(&gencertKeyOut, "key-out", "key.pem", "Private key output path")
	rootCmd.AddCommand(gencertCmd)
}
