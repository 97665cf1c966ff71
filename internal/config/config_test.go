package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// setupHome points HOME at a fresh temp dir and resets Viper's global state.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := setupHome(t)

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.UserHome != home {
		t.Errorf("UserHome = %q, want %q", s.UserHome, home)
	}
	wantHome := filepath.Join(home, ".magic-cli")
	if s.HomePath != wantHome {
		t.Errorf("HomePath = %q, want %q", s.HomePath, wantHome)
	}
	if s.TargetPath != "" {
		t.Errorf("TargetPath = %q, want empty", s.TargetPath)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", s.LogLevel)
	}
	if len(s.Commands) != 0 {
		t.Errorf("Commands = %v, want empty", s.Commands)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	home := setupHome(t)
	t.Setenv("MAGIC_CLI_TARGET_PATH", "/work/init")
	t.Setenv("MAGIC_CLI_HOME", ".other-home")
	t.Setenv("MAGIC_CLI_USE_ORIGINAL_REGISTRY", "true")
	t.Setenv("MAGIC_CLI_DEBUG", "1")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.TargetPath != "/work/init" {
		t.Errorf("TargetPath = %q", s.TargetPath)
	}
	if s.HomePath != filepath.Join(home, ".other-home") {
		t.Errorf("HomePath = %q", s.HomePath)
	}
	if !s.UseOriginalRegistry {
		t.Error("UseOriginalRegistry should be true")
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", s.LogLevel)
	}
}

func TestLoad_HomePathWins(t *testing.T) {
	setupHome(t)
	explicit := filepath.Join(t.TempDir(), "cli-home")
	t.Setenv("MAGIC_CLI_HOME", ".ignored")
	t.Setenv("MAGIC_CLI_HOME_PATH", explicit)

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.HomePath != explicit {
		t.Errorf("HomePath = %q, want %q", s.HomePath, explicit)
	}
}

func TestLoad_Dotenv(t *testing.T) {
	home := setupHome(t)
	env := "MAGIC_CLI_REGISTRY=https://registry.example.test\nMAGIC_CLI_LOG_LEVEL=warn\n"
	if err := os.WriteFile(filepath.Join(home, ".env"), []byte(env), 0644); err != nil {
		t.Fatal(err)
	}
	// Already-set variables are not overridden by the dotenv file.
	t.Setenv("MAGIC_CLI_LOG_LEVEL", "error")
	// Registered so t.Setenv restores it after gotenv writes it.
	t.Setenv("MAGIC_CLI_REGISTRY", "")
	os.Unsetenv("MAGIC_CLI_REGISTRY")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Registry != "https://registry.example.test" {
		t.Errorf("Registry = %q", s.Registry)
	}
	if s.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", s.LogLevel)
	}
}

func TestLoad_CommandsFromFile(t *testing.T) {
	setupHome(t)
	if err := EnsureDir(); err != nil {
		t.Fatal(err)
	}
	yaml := `commands:
  add: "@magic-cli-dev/add"
  publish:
    package: "@magic-cli-dev/publish"
    version: "1.2.0"
    hooks:
      - npm run build
`
	if err := os.WriteFile(FilePath(), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := s.Commands["add"].Package; got != "@magic-cli-dev/add" {
		t.Errorf("add package = %q", got)
	}
	pub := s.Commands["publish"]
	if pub.Package != "@magic-cli-dev/publish" || pub.Version != "1.2.0" {
		t.Errorf("publish = %+v", pub)
	}
	if len(pub.Hooks) != 1 || pub.Hooks[0] != "npm run build" {
		t.Errorf("publish hooks = %v", pub.Hooks)
	}
}

func TestDecodeCommands_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
	}{
		{"not a mapping", []interface{}{"x"}},
		{"missing package", map[string]interface{}{"x": map[string]interface{}{"version": "1.0.0"}}},
		{"bad value", map[string]interface{}{"x": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeCommands(tt.raw); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUserHome_Missing(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := UserHome()
	if !errors.Is(err, ErrNoUserHome) {
		t.Errorf("err = %v, want ErrNoUserHome", err)
	}
}

func TestSetAndGet(t *testing.T) {
	setupHome(t)
	Init()

	if err := Set("registry", "https://registry.example.test"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := Get("registry"); got != "https://registry.example.test" {
		t.Errorf("Get() = %q", got)
	}
	if _, err := os.Stat(FilePath()); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}
