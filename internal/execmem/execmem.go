// Package execmem renders a feature's execution memory (past attempts and
// reusable session tactics) as markdown for its context package.
package execmem

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZhiHanZ/forge/internal/project"
)

// Attempt is one recorded try at implementing a feature.
type Attempt struct {
	Number       json.RawMessage `json:"number,omitempty"`
	Summary      string          `json:"summary"`
	FailedReason string          `json:"failed_reason,omitempty"`
	Discoveries  []string        `json:"discoveries,omitempty"`
}

// number renders the attempt number as written: strings unquoted, any
// other JSON value verbatim, "?" when absent or null.
func (a Attempt) number() string {
	raw := strings.TrimSpace(string(a.Number))
	if raw == "" || raw == "null" {
		return "?"
	}
	var s string
	if err := json.Unmarshal(a.Number, &s); err == nil {
		return s
	}
	return raw
}

// Tactics is the reusable knowledge an agent recorded after a session.
type Tactics struct {
	Approach         string   `json:"approach,omitempty"`
	TestStrategy     string   `json:"test_strategy,omitempty"`
	VerifyResult     string   `json:"verify_result,omitempty"`
	PerformanceNotes string   `json:"performance_notes,omitempty"`
	ContextUsed      []string `json:"context_used,omitempty"`
	KeyFilesRead     []string `json:"key_files_read,omitempty"`
	Insights         []string `json:"insights,omitempty"`
}

// Memory is the per-feature record stored at <dir>/<feature>.json.
type Memory struct {
	Attempts []Attempt `json:"attempts"`
	Tactics  *Tactics  `json:"tactics,omitempty"`
}

// Loader reads execution memory records from Dir.
type Loader struct {
	Dir string
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Read decodes the record for featureID. ok is false when the id is not a
// plain file name or the file is missing, unreadable or malformed.
func (l *Loader) Read(featureID string) (Memory, bool) {
	if !project.ValidID(featureID) {
		return Memory{}, false
	}
	data, err := os.ReadFile(filepath.Join(l.Dir, featureID+".json"))
	if err != nil {
		return Memory{}, false
	}
	var m Memory
	if err := json.Unmarshal(data, &m); err != nil {
		return Memory{}, false
	}
	return m, true
}

// Load renders the record for featureID as markdown. Any failure to read
// or parse the record yields "".
func (l *Loader) Load(featureID string) string {
	m, ok := l.Read(featureID)
	if !ok {
		return ""
	}
	return Render(m)
}

// Render formats attempts and tactics. Absent fields produce no lines.
func Render(m Memory) string {
	var lines []string

	if len(m.Attempts) > 0 {
		lines = append(lines, "## Previous Attempts")
		for _, a := range m.Attempts {
			lines = append(lines, "- Attempt "+a.number()+": "+a.Summary)
			if a.FailedReason != "" {
				lines = append(lines, "  Failed: "+a.FailedReason)
			}
			for _, d := range a.Discoveries {
				lines = append(lines, "  - Discovered: "+d)
			}
		}
	}

	if t := m.Tactics; !t.empty() {
		lines = append(lines, "", "## Session Tactics")
		lines = appendLabeled(lines, "**Approach**: ", t.Approach)
		lines = appendLabeled(lines, "**Test strategy**: ", t.TestStrategy)
		lines = appendLabeled(lines, "**Verify result**: ", t.VerifyResult)
		lines = appendLabeled(lines, "**Performance**: ", t.PerformanceNotes)
		lines = appendLabeled(lines, "**Context used**: ", strings.Join(t.ContextUsed, ", "))
		lines = appendLabeled(lines, "**Key files**: ", strings.Join(t.KeyFilesRead, ", "))
		if len(t.Insights) > 0 {
			lines = append(lines, "**Insights:**")
			for _, in := range t.Insights {
				lines = append(lines, "- "+in)
			}
		}
	}

	if len(lines) == 0 {
		return ""
	}
	// A tactics-only record would otherwise open with a blank line.
	if lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

// empty reports whether no tactic field carries content.
func (t *Tactics) empty() bool {
	return t == nil || (t.Approach == "" && t.TestStrategy == "" && t.VerifyResult == "" &&
		t.PerformanceNotes == "" && len(t.ContextUsed) == 0 && len(t.KeyFilesRead) == 0 &&
		len(t.Insights) == 0)
}

func appendLabeled(lines []string, label, value string) []string {
	if value == "" {
		return lines
	}
	return append(lines, label+value)
}
