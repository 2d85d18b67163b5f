package cli

import (
	"fmt"
	"strings"

	"github.com/secdial/secdial/pkg/cli/internal/output"
	"github.com/secdial/secdial/pkg/protocol"
	"github.com/spf13/cobra"
)

// ProbeOutput represents JSON output format
type ProbeOutput struct {
	DefaultProtocol  string   `json:"defaultProtocol"`
	EnabledProtocols []string `json:"enabledProtocols"`
	Supported        []string `json:"supported"`
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show the discovered default protocol and enabled set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		reg := protocol.SharedRegistry()
		if err := settings.Apply(reg); err != nil {
			return err
		}

		out := ProbeOutput{
			DefaultProtocol:  reg.DefaultProtocol(),
			EnabledProtocols: reg.EnabledProtocols().Values(),
			Supported:        protocol.SupportedProtocols(),
		}

		if jsonOutput {
			return output.JSON(out)
		}

		w := output.Table()
		fmt.Fprintf(w, "Default protocol:\t%s\n", out.DefaultProtocol)
		fmt.Fprintf(w, "Enabled protocols:\t%s\n", joinOrDash(out.EnabledProtocols))
		fmt.Fprintf(w, "Runtime supports:\t%s\n", joinOrDash(out.Supported))
		return w.Flush()
	},
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
