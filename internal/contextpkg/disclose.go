package contextpkg

import (
	"os"
	"strings"

	"github.com/ZhiHanZ/forge/internal/filemap"
	"github.com/ZhiHanZ/forge/internal/project"
)

// deepDivePrefix opens the Tier 3 pointer line.
const deepDivePrefix = "> **Deep dive**: For full tactics, decisions, and test strategy read "

// Partition splits the feature's declared dependencies, preserving declared
// order, into done dependencies and the IDs of known dependencies that are
// not done. IDs missing from byID are dropped from both.
func Partition(f project.Feature, byID map[string]project.Feature) (done []project.Feature, unmet []string) {
	for _, id := range f.DependsOn {
		dep, ok := byID[id]
		if !ok {
			continue
		}
		if dep.Status == project.StatusDone {
			done = append(done, dep)
		} else {
			unmet = append(unmet, id)
		}
	}
	return done, unmet
}

// Disclose renders the feature's dependencies at three tiers of detail:
// a summary table, the public API surface of each done dependency, and
// pointers to done dependencies' full packages that already exist on disk.
func (c *Compiler) Disclose(f project.Feature, all []project.Feature, infos filemap.Snapshot) []string {
	if len(f.DependsOn) == 0 || len(all) == 0 {
		return nil
	}

	byID := project.Index(all)
	done, unmet := Partition(f, byID)
	if len(done) == 0 && len(unmet) == 0 {
		return nil
	}

	lines := []string{"", "## Dependencies"}
	lines = append(lines, summaryTable(done, unmet, byID)...)
	for _, dep := range done {
		lines = append(lines, c.apiSurface(dep, infos)...)
	}
	lines = append(lines, c.deepDive(done)...)
	return lines
}

// summaryTable is Tier 1: one row per dependency, done rows first.
func summaryTable(done []project.Feature, unmet []string, byID map[string]project.Feature) []string {
	lines := []string{
		"",
		"| Dep | Description | Scope | Status |",
		"|-----|-------------|-------|--------|",
	}
	for _, dep := range done {
		lines = append(lines, row(dep.ID, dep.Description, dep.Scope, "done"))
	}
	for _, id := range unmet {
		dep := byID[id]
		lines = append(lines, row(id, orDefault(dep.Description, "?"), orDefault(dep.Scope, "?"), "**pending**"))
	}
	return lines
}

func row(cells ...string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// apiSurface is Tier 2: every public function and type across the
// dependency's owned files, in file order. Dependencies without any
// extracted API contribute nothing, not even a heading.
func (c *Compiler) apiSurface(dep project.Feature, infos filemap.Snapshot) []string {
	var lines []string
	for _, path := range c.Scopes.Resolve(dep) {
		info := infos.Lookup(path)
		if !info.HasAPI() {
			continue
		}
		if lines == nil {
			lines = []string{"", "### " + dep.ID + " — API Surface"}
		}
		lines = append(lines, filemap.FunctionLines(info.PublicFunctions)...)
		lines = append(lines, filemap.TypeLines(info.PublicTypes)...)
	}
	return lines
}

// deepDive is Tier 3: pointers to done dependencies' packages that exist.
func (c *Compiler) deepDive(done []project.Feature) []string {
	var refs []string
	for _, dep := range done {
		if !project.ValidID(dep.ID) {
			continue
		}
		if _, err := os.Stat(c.Paths.PackagePath(dep.ID)); err == nil {
			refs = append(refs, "`"+c.Paths.PackageRef(dep.ID)+"`")
		}
	}
	if len(refs) == 0 {
		return nil
	}
	return []string{"", deepDivePrefix + strings.Join(refs, ", ")}
}
