package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPrinter_Messages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		print func(p *Printer)
		want  []string
	}{
		{"info", func(p *Printer) { p.Info("No features to package.") }, []string{"No features to package."}},
		{"warn", func(p *Printer) { p.Warn("cycle a → b") }, []string{"warning:", "cycle a → b"}},
		{"error", func(p *Printer) { p.Error("boom") }, []string{"error:", "boom"}},
		{"file failed", func(p *Printer) { p.FileFailed("src/a.go", errors.New("timeout")) }, []string{"Skipping", "src/a.go: timeout"}},
		{"wrote pending", func(p *Printer) { p.Wrote("context/packages/f2.md", 2048, false) }, []string{"Wrote context/packages/f2.md", "2.0 kB"}},
		{"wrote completed", func(p *Printer) { p.Wrote("context/packages/f1.md", 10, true) }, []string{"completed, 10 B"}},
		{"index", func(p *Printer) { p.IndexWritten("context/INDEX.md", 1500) }, []string{"context/INDEX.md", "1.5 kB"}},
		{"empty index", func(p *Printer) { p.IndexWritten("context/INDEX.md", 0) }, []string{"No knowledge entries"}},
		{"watching", func(p *Printer) { p.Watching([]string{"features.json", "forge.toml"}) }, []string{"watching", "features.json, forge.toml"}},
		{"failed", func(p *Printer) { p.Failed(errors.New("no dir")) }, []string{"failed:", "no dir"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.print(NewWithWriter(&buf, false))
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestPrinter_DebugOnlyWhenVerbose(t *testing.T) {
	t.Parallel()
	var quiet, loud bytes.Buffer
	NewWithWriter(&quiet, false).Debug("cache hit")
	NewWithWriter(&loud, true).Debug("cache hit")
	if quiet.Len() != 0 {
		t.Errorf("non-verbose Debug wrote %q", quiet.String())
	}
	if !strings.Contains(loud.String(), "cache hit") {
		t.Errorf("verbose Debug output = %q", loud.String())
	}
}

func TestPrinter_Summary(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewWithWriter(&buf, false).Summary(Summary{
		Completed: 1, Pending: 2, Extracted: 5, Cached: 3, Failed: 1, Written: 3,
		Elapsed: 1500 * time.Millisecond,
	})
	out := buf.String()
	for _, want := range []string{"with failures", "1.5s", "1 completed, 2 pending", "5 extracted (3 cached), 1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
