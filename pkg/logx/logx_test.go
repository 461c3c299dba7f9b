package logx

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): want %d, got %d", in, want, got)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, false)
	defer Configure(os.Stderr, false)

	SetLevel(LevelWarn)
	defer SetLevel(LevelInfo)

	Info("hidden")
	Warnf("shown %d", 1)
	WithFields(Fields{"candidacy_id": "abc"}).Error("with fields")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown 1") {
		t.Errorf("warn line missing: %s", out)
	}
	if !strings.Contains(out, "candidacy_id=abc") {
		t.Errorf("fields missing: %s", out)
	}
}
