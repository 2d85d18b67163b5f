package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/secdial/secdial/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

// VersionOutput represents JSON output format
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// resolveVersion combines the ldflags-injected build variables with what
// the Go toolchain stamped into the binary. The ldflags values win; the
// stamped values fill whatever was left at its placeholder.
func resolveVersion() VersionOutput {
	out := VersionOutput{
		Version: Version,
		Commit:  Commit,
		Date:    BuildDate,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	if out.Version == "dev" && info.Main.Version != "" {
		out.Version = info.Main.Version
	}
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if out.Commit == "none" {
				out.Commit = setting.Value
			}
		case "vcs.time":
			if out.Date == "unknown" {
				out.Date = setting.Value
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		out.Commit += "-dirty"
	}
	return out
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show secdial version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := resolveVersion()
		if jsonOutput {
			return output.JSON(out)
		}

		fmt.Printf("secdial %s\n", out.Version)
		w := output.Table()
		fmt.Fprintf(w, "  commit:\t%s\n", out.Commit)
		fmt.Fprintf(w, "  built:\t%s\n", out.Date)
		fmt.Fprintf(w, "  runtime:\t%s %s/%s\n", out.Go, out.OS, out.Arch)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
