package arch_test

import (
	"path/filepath"
	"testing"
)

// layers assigns each internal package to a numeric layer. A package at
// layer N may only import packages at layer N or below. The compiler core
// (contextpkg and what it reads) never reaches the LLM, cache or transport
// layers.
var layers = map[string]int{
	"agent":     0,
	"config":    0,
	"execmem":   0,
	"filemap":   0,
	"knowledge": 0,
	"project":   0,
	"telemetry": 0,
	"ui":        0,

	"claude":     1,
	"contextpkg": 1,
	"depgraph":   1,
	"extract":    1,
	"watch":      1,

	"driver": 2,

	"mcpserver": 3,
}

// forbidden lists imports that the layer numbers alone would allow but that
// break the pure compile path.
var forbidden = map[string][]string{
	"contextpkg": {"extract", "claude", "telemetry", "ui"},
	"extract":    {"contextpkg", "knowledge", "execmem"},
}

func TestDependencyLayering(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		importerLayer, ok := layers[pkg]
		if !ok {
			continue
		}
		for _, imp := range importsOf(t, filepath.Join(dir, pkg)) {
			importedLayer, ok := layers[imp]
			if !ok {
				continue
			}
			if importerLayer < importedLayer {
				t.Errorf("layer violation: %s (layer %d) imports %s (layer %d)",
					pkg, importerLayer, imp, importedLayer)
			}
		}
	}
}

func TestForbiddenImports(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for pkg, banned := range forbidden {
		imports := importsOf(t, filepath.Join(dir, pkg))
		for _, imp := range imports {
			for _, b := range banned {
				if imp == b {
					t.Errorf("%s must not import %s", pkg, b)
				}
			}
		}
	}
}

// TestNoUnknownPackages forces every new package into the layer map.
func TestNoUnknownPackages(t *testing.T) {
	t.Parallel()

	for _, pkg := range internalPackages(t) {
		if _, ok := layers[pkg]; !ok {
			t.Errorf("package %s has no layer assignment; add it to the layers map", pkg)
		}
	}
}
