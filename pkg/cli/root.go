package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/secdial/secdial/pkg/config"
	"github.com/secdial/secdial/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	logLevel   string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "secdial",
	Short: "secdial inspects and controls TLS protocol negotiation",
	Long: `secdial probes the runtime's TLS protocol support, dials servers with an
enforced protocol set, and generates self-signed certificates for testing.

Configuration can be provided via flags, environment variables, or a
configuration file. By default, secdial looks for a configuration file at
~/.secdial/config.yaml.`,
	// No Run function here means 'secdial' with no args will print help text by default.
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a configuration file (default: ~/.secdial/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// loadSettings resolves the effective configuration for a command: the
// --config flag wins, then the SECDIAL_CONFIG environment variable, then the
// default path. A missing default file is not an error.
func loadSettings() (*config.Settings, error) {
	path := configPath
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(config.EnvConfigPath); env != "" {
			path = env
			explicit = true
		} else {
			path = config.DefaultPath()
		}
	}
	if path == "" {
		return &config.Settings{}, nil
	}

	settings, err := config.LoadFromFile(path)
	if err != nil {
		if !explicit && errors.Is(err, config.ErrFileNotFound) {
			return &config.Settings{}, nil
		}
		return nil, err
	}
	return settings, nil
}

// newLogger builds a logger from the --log-level flag, falling back to the
// configured level when the flag keeps its default.
func newLogger(settings *config.Settings) *slog.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LevelWarn
	if settings != nil && settings.LogLevel != "" {
		cfg.Level = logging.ParseLevel(settings.LogLevel)
	}
	if rootCmd.PersistentFlags().Changed("log-level") {
		cfg.Level = logging.ParseLevel(logLevel)
	}
	if settings != nil && settings.LogFormat != "" {
		cfg.Format = logging.ParseFormat(settings.LogFormat)
	}
	return logging.New(cfg)
}
