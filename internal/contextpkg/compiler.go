// Package contextpkg compiles per-feature context packages: markdown
// documents that give a coding agent the scope files, dependency surface,
// project knowledge and attempt history for one feature.
//
// Compilation is a pure function of its inputs. The only filesystem reads
// are the knowledge store, execution memory, and the existence of
// previously written dependency packages.
package contextpkg

import (
	"strings"

	"github.com/ZhiHanZ/forge/internal/config"
	"github.com/ZhiHanZ/forge/internal/execmem"
	"github.com/ZhiHanZ/forge/internal/filemap"
	"github.com/ZhiHanZ/forge/internal/knowledge"
	"github.com/ZhiHanZ/forge/internal/project"
)

// Compiler assembles packages from the run's frozen inputs.
type Compiler struct {
	Paths     config.Paths
	Scopes    *project.ScopeTable // may be nil
	Knowledge *knowledge.Store
	Memory    *execmem.Loader
}

// New builds a Compiler whose knowledge and memory stores live at the
// standard project locations.
func New(paths config.Paths, scopes *project.ScopeTable) *Compiler {
	return &Compiler{
		Paths:     paths,
		Scopes:    scopes,
		Knowledge: knowledge.NewStore(paths.ContextDir),
		Memory:    execmem.NewLoader(paths.ExecMemoryDir),
	}
}

// CompileCompleted renders the package for a done feature: the API
// contract and knowledge its dependents reuse. Sections without content
// are omitted.
func (c *Compiler) CompileCompleted(f project.Feature, infos filemap.Snapshot) string {
	lines := []string{"# Completed: " + f.ID}
	lines = append(lines, header(f)...)
	lines = append(lines, "**Status**: done")

	lines = append(lines, filemap.RenderScope(c.Scopes.Resolve(f), infos)...)

	if scoped := c.Knowledge.LoadForScope(f.Scope); len(scoped) > 0 {
		lines = append(lines, "", "## Decisions & Patterns")
		lines = append(lines, scoped...)
	}

	var linked []string
	for _, hint := range f.ContextHints {
		if body, ok := c.Knowledge.ReadHint(hint); ok && body != "" {
			linked = append(linked, "", "### "+hint, body)
		}
	}
	if len(linked) > 0 {
		lines = append(lines, "", "## Linked Context")
		lines = append(lines, linked...)
	}

	if poc := c.Knowledge.POC(f.ID); poc != "" {
		lines = append(lines, "", "## POC Results", poc)
	}

	lines = c.appendMemory(lines, f.ID)
	return join(lines)
}

// CompilePending renders the package for a pending or claimed feature,
// including progressive disclosure of its dependencies.
func (c *Compiler) CompilePending(f project.Feature, infos filemap.Snapshot, all []project.Feature) string {
	lines := []string{"# Context Package: " + f.ID}
	lines = append(lines, header(f)...)

	lines = append(lines, c.Disclose(f, all, infos)...)
	lines = append(lines, filemap.RenderScope(c.Scopes.Resolve(f), infos)...)

	// Hints are listed when their file exists, even if it is still empty,
	// so the agent sees which notes the planner expects to be filled in.
	var relevant []string
	for _, hint := range f.ContextHints {
		if body, ok := c.Knowledge.ReadHint(hint); ok {
			relevant = append(relevant, "", "### "+hint, body)
		}
	}
	if len(relevant) > 0 {
		lines = append(lines, "", "## Relevant Context")
		lines = append(lines, relevant...)
	}

	if all := c.Knowledge.LoadAll(); all != "" {
		lines = append(lines, "", "## Project Knowledge", all)
	}

	lines = c.appendMemory(lines, f.ID)
	return join(lines)
}

func (c *Compiler) appendMemory(lines []string, featureID string) []string {
	if mem := c.Memory.Load(featureID); mem != "" {
		lines = append(lines, "", mem)
	}
	return lines
}

func header(f project.Feature) []string {
	return []string{
		"",
		"**Description**: " + f.Description,
		"**Scope**: " + orDefault(f.Scope, "unknown"),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// join produces the final document with a single trailing newline.
func join(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}
