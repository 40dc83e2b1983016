// Package filemap defines the per-file summaries produced by extraction and
// renders them as markdown blocks inside context packages.
package filemap

import (
	"fmt"
	"strings"
)

// Function is a public function signature extracted from a source file.
type Function struct {
	Name         string `json:"name"`
	Signature    string `json:"signature"`
	IsEntryPoint bool   `json:"is_entry_point,omitempty"`
	Summary      string `json:"summary"`
}

// Type is a public type (struct, enum, trait, class, interface).
type Type struct {
	Name    string `json:"name"`
	Kind    string `json:"kind,omitempty"`
	Summary string `json:"summary"`
}

// Info is the extracted summary of a single source file.
type Info struct {
	Name            string     `json:"name"`
	Summary         string     `json:"summary"`
	Lines           int        `json:"lines"`
	PublicFunctions []Function `json:"public_functions"`
	PublicTypes     []Type     `json:"public_types"`
	KeyImports      []string   `json:"key_imports"`
}

// HasAPI reports whether the file exposes any public functions or types.
func (i *Info) HasAPI() bool {
	return i != nil && (len(i.PublicFunctions) > 0 || len(i.PublicTypes) > 0)
}

// Snapshot maps project-relative paths to extracted info. A path with no
// entry has not been analyzed. Snapshots are built once per run and only
// read afterwards.
type Snapshot map[string]*Info

// Lookup returns the info for path, or nil when absent. Safe on a nil
// snapshot.
func (s Snapshot) Lookup(path string) *Info {
	if s == nil {
		return nil
	}
	return s[path]
}

// Placeholder is rendered under the heading of a file that has no info.
const Placeholder = "_(not yet analyzed)_"

// Render returns the markdown lines for one scope file. Every path yields
// output: either the full block or the not-yet-analyzed placeholder.
func Render(path string, infos Snapshot) []string {
	info := infos.Lookup(path)
	if info == nil {
		return []string{"", "### " + path, Placeholder}
	}

	lines := []string{
		"",
		fmt.Sprintf("### %s (%d lines)", info.Name, info.Lines),
		info.Summary,
	}
	if len(info.PublicFunctions) > 0 {
		lines = append(lines, "", "**Functions:**")
		lines = append(lines, FunctionLines(info.PublicFunctions)...)
	}
	if len(info.PublicTypes) > 0 {
		lines = append(lines, "", "**Types:**")
		lines = append(lines, TypeLines(info.PublicTypes)...)
	}
	if len(info.KeyImports) > 0 {
		lines = append(lines, "", "**Key imports:** "+strings.Join(info.KeyImports, ", "))
	}
	return lines
}

// RenderScope renders the "Scope Files" section for the given owned paths.
// No paths means no section.
func RenderScope(paths []string, infos Snapshot) []string {
	if len(paths) == 0 {
		return nil
	}
	lines := []string{"", "## Scope Files"}
	for _, p := range paths {
		lines = append(lines, Render(p, infos)...)
	}
	return lines
}

// FunctionLines renders one bullet per function: code-formatted signature, then summary.
func FunctionLines(fns []Function) []string {
	out := make([]string, 0, len(fns))
	for _, fn := range fns {
		out = append(out, fmt.Sprintf("- `%s` — %s", fn.Signature, fn.Summary))
	}
	return out
}

// TypeLines renders one bullet per type: code-formatted name, then summary.
func TypeLines(types []Type) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, fmt.Sprintf("- `%s` — %s", t.Name, t.Summary))
	}
	return out
}
