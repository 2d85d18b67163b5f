package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/secdial/secdial/pkg/config"
)

func TestLoadSettings_NoConfigAnywhere(t *testing.T) {
	configPath = ""
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("HOME", t.TempDir())

	settings, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if settings.DefaultProtocol != "" || len(settings.EnabledProtocols) != 0 {
		t.Errorf("Expected empty settings, got %+v", settings)
	}
}

func TestLoadSettings_FlagWins(t *testing.T) {
	tmpDir := t.TempDir()
	flagPath := filepath.Join(tmpDir, "flag.yaml")
	envPath := filepath.Join(tmpDir, "env.yaml")
	if err := os.WriteFile(flagPath, []byte("defaultProtocol: TLSv1.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envPath, []byte("defaultProtocol: TLSv1.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	configPath = flagPath
	defer func() { configPath = "" }()
	t.Setenv(config.EnvConfigPath, envPath)

	settings, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if settings.DefaultProtocol != "TLSv1.3" {
		t.Errorf("Expected flag file to win, got default protocol %q", settings.DefaultProtocol)
	}
}

func TestLoadSettings_EnvPath(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, "env.json")
	if err := os.WriteFile(envPath, []byte(`{"defaultProtocol": "TLSv1.2"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	configPath = ""
	t.Setenv(config.EnvConfigPath, envPath)

	settings, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if settings.DefaultProtocol != "TLSv1.2" {
		t.Errorf("Expected TLSv1.2, got %q", settings.DefaultProtocol)
	}
}

func TestLoadSettings_ExplicitMissingFileErrors(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "nope.yaml")
	defer func() { configPath = "" }()
	t.Setenv(config.EnvConfigPath, "")

	if _, err := loadSettings(); err == nil {
		t.Error("Expected an error for an explicitly named missing file")
	}
}

func TestJoinOrDash(t *testing.T) {
	if got := joinOrDash(nil); got != "-" {
		t.Errorf("Expected '-', got %q", got)
	}
	if got := joinOrDash([]string{"TLSv1.2", "TLSv1.3"}); got != "TLSv1.2, TLSv1.3" {
		t.Errorf("Unexpected join result: %q", got)
	}
}
