package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrefixWriter(t *testing.T) {
	var buf bytes.Buffer
	pw := NewPrefixWriter("> ", &buf)

	writes := []string{"first li", "ne\nsecond line\n", "partial"}
	for _, w := range writes {
		n, err := pw.Write([]byte(w))
		if err != nil {
			t.Fatalf("Write(%q) failed: %v", w, err)
		}
		if n != len(w) {
			t.Errorf("Write(%q) = %d, want %d", w, n, len(w))
		}
	}

	want := "> first line\n> second line\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if _, err := pw.Write([]byte(" done\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want += "> partial done\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSplitLevel(t *testing.T) {
	tests := []struct {
		in    string
		level string
		json  bool
	}{
		{in: "debug", level: "debug"},
		{in: "json", level: "info", json: true},
		{in: "json:trace", level: "trace", json: true},
		{in: "json:", level: "info", json: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, json := SplitLevel(tt.in)
			if level != tt.level || json != tt.json {
				t.Errorf("SplitLevel(%q) = (%q, %v), want (%q, %v)", tt.in, level, json, tt.level, tt.json)
			}
		})
	}
}

func TestResolveLevel(t *testing.T) {
	t.Setenv("SONGBOOK_BUILDER_LOG_LEVEL", "")
	t.Setenv("SONGBOOK_LOG_LEVEL", "")

	if level, source := ResolveLevel(""); level != "info" || source != "default" {
		t.Errorf("default = (%q, %q)", level, source)
	}

	t.Setenv("SONGBOOK_LOG_LEVEL", "warn")
	if level, _ := ResolveLevel(""); level != "warn" {
		t.Errorf("SONGBOOK_LOG_LEVEL not used, got %q", level)
	}

	t.Setenv("SONGBOOK_BUILDER_LOG_LEVEL", "debug")
	if level, _ := ResolveLevel(""); level != "debug" {
		t.Errorf("SONGBOOK_BUILDER_LOG_LEVEL not preferred, got %q", level)
	}

	if level, source := ResolveLevel("error"); level != "error" || source != "CLI --log-level" {
		t.Errorf("CLI level not preferred, got (%q, %q)", level, source)
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv("SONGBOOK_JSON_LOG", "")

	var buf bytes.Buffer
	logger := NewLogger("songbook-test", "info", &buf)
	logger.Debug("hidden")
	logger.Info("visible", "songs", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.HasPrefix(out, Prefix) || !strings.Contains(out, "songs=3") {
		t.Errorf("unexpected output %q", out)
	}

	buf.Reset()
	logger = NewLogger("songbook-test", "json:info", &buf)
	logger.Info("visible")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}
