package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"verbose", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_VerbosityGate(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	logger.Info("visible", "pkg", "@magic-cli-dev/init")
	logger.V(1).Info("hidden")

	out := buf.String()
	if !strings.Contains(out, "visible") {
		t.Errorf("expected info record, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("V(1) record should be suppressed at info level, got %q", out)
	}

	buf.Reset()
	debug := New(&buf, "debug")
	debug.V(1).Info("detail")
	if !strings.Contains(buf.String(), "detail") {
		t.Errorf("expected V(1) record at debug level, got %q", buf.String())
	}
}
