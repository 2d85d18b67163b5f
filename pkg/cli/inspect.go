package cli

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/secdial/secdial/pkg/certinfo"
	"github.com/secdial/secdial/pkg/cli/internal/output"
	"github.com/secdial/secdial/pkg/protocol"
	"github.com/secdial/secdial/pkg/sectx"
	"github.com/secdial/secdial/pkg/sockets"
	"github.com/spf13/cobra"
)

var (
	inspectProtocol string
	inspectInsecure bool
	inspectTimeout  time.Duration
)

// InspectOutput represents JSON output format
type InspectOutput struct {
	Address            string               `json:"address"`
	NegotiatedProtocol string               `json:"negotiatedProtocol"`
	CipherSuite        string               `json:"cipherSuite"`
	PeerCertificates   []*certinfo.Identity `json:"peerCertificates"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <host:port>",
	Short: "Dial a TLS server and report the negotiated protocol and peer certificates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := args[0]

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		reg := protocol.SharedRegistry()
		if err := settings.Apply(reg); err != nil {
			return err
		}

		opts, err := settings.FactoryOptions()
		if err != nil {
			return err
		}
		opts = append(opts, sectx.WithRegistry(reg), sectx.WithLogger(newLogger(settings)))
		if inspectInsecure {
			opts = append(opts, sectx.WithTrust(sectx.TrustAll()))
			output.Warn("certificate verification disabled (--insecure)")
		}
		factory := sectx.New(opts...)

		var sf sockets.SocketFactory
		if inspectProtocol != "" {
			sf, err = factory.SocketFactoryFor(inspectProtocol)
		} else {
			sf, err = factory.SocketFactory()
		}
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), inspectTimeout)
		defer cancel()

		conn, err := sf.DialContext(ctx, "tcp", address)
		if err != nil {
			return fmt.Errorf("failed to dial %s: %w", address, err)
		}
		defer conn.Close()

		sc, ok := conn.(*sectx.Conn)
		if !ok {
			return fmt.Errorf("connection to %s does not expose TLS state", address)
		}
		if err := sc.Handshake(ctx); err != nil {
			return fmt.Errorf("handshake with %s failed: %w", address, err)
		}
		state, _ := sc.ConnectionState()

		out := InspectOutput{
			Address:            address,
			NegotiatedProtocol: protocol.VersionName(state.Version),
			CipherSuite:        tls.CipherSuiteName(state.CipherSuite),
		}
		for _, cert := range state.PeerCertificates {
			out.PeerCertificates = append(out.PeerCertificates, certinfo.ExtractIdentity(cert))
		}

		if jsonOutput {
			return output.JSON(out)
		}

		fmt.Printf("Connected to %s\n", out.Address)
		fmt.Printf("Protocol:     %s\n", out.NegotiatedProtocol)
		fmt.Printf("Cipher suite: %s\n", out.CipherSuite)
		for i, cert := range state.PeerCertificates {
			fmt.Printf("Certificate %d: %s\n", i, certinfo.Summarize(cert))
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectProtocol, "protocol", "", "Pin the connection to exactly this protocol (e.g. TLSv1.2)")
	inspectCmd.Flags().BoolVar(&inspectInsecure, "insecure", false, "Skip certificate verification")
	inspectCmd.Flags().DurationVar(&inspectTimeout, "timeout", 10*time.Second, "Dial and handshake timeout")
	rootCmd.AddCommand(inspectCmd)
}
