package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "magic" {
		t.Errorf("CLIName() = %q, want %q", got, "magic")
	}
	if got := HomeDir(); got != ".magic-cli" {
		t.Errorf("HomeDir() = %q, want %q", got, ".magic-cli")
	}
	if got := NpmName(); got != "@magic-cli-dev/core" {
		t.Errorf("NpmName() = %q", got)
	}
}

func TestEnvVar(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"home", "MAGIC_CLI_HOME"},
		{"target_path", "MAGIC_CLI_TARGET_PATH"},
		{"LOG_LEVEL", "MAGIC_CLI_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			if got := EnvVar(tt.suffix); got != tt.want {
				t.Errorf("EnvVar(%q) = %q, want %q", tt.suffix, got, tt.want)
			}
		})
	}
}
