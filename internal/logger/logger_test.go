package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

type staticChecker bool

func (s staticChecker) IsVerbose() bool { return bool(s) }

func TestLogger_VerboseGating(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantDebug   bool
		wantWarning bool
	}{
		{"quiet", false, false, true},
		{"verbose", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter("client", staticChecker(tt.verbose), &buf)

			log.Debug("uploading %s", "leaf.png")
			log.Warn("slow response")

			out := buf.String()
			if got := strings.Contains(out, "uploading leaf.png"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "slow response"); got != tt.wantWarning {
				t.Errorf("warn line present = %v, want %v", got, tt.wantWarning)
			}
			if !strings.Contains(out, "component=client") {
				t.Errorf("expected component field in output: %s", out)
			}
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("", staticChecker(true), &buf)

	log.InfoWithFields("analysis finished", []Field{
		F("disease", "black_scorch"),
		Count(3),
		Duration(1500 * time.Millisecond),
		Error(errors.New("none")),
	})

	out := buf.String()
	for _, want := range []string{"analysis finished", "disease=black_scorch", "count=3", "duration=1.5s", "error=none", "component=main"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}

func TestLogger_WithComponentSharesBackend(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter("cli", staticChecker(false), &buf)
	child := parent.WithComponent("watch")

	child.Error("cannot read %s", "dir")
	if !strings.Contains(buf.String(), "component=watch") {
		t.Errorf("expected child component in output: %s", buf.String())
	}
}

func TestNewWithCallback(t *testing.T) {
	verbose := false
	log := NewWithCallback("ui", func() bool { return verbose })
	if log.verbose() {
		t.Error("expected quiet logger")
	}
	verbose = true
	if !log.verbose() {
		t.Error("expected callback to be re-evaluated")
	}
}

func TestNop(t *testing.T) {
	// must not panic or write anywhere visible
	Nop().Error("dropped")
}
