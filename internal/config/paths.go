package config

import "path/filepath"

// Well-known file and directory names inside a forge project.
const (
	FeaturesFile   = "features.json"
	ForgeTOMLFile  = "forge.toml"
	ContextDirName = "context"
	PackagesDir    = "packages"
	FeedbackDir    = "feedback"
	ExecMemoryDir  = "exec-memory"
)

// Paths is the set of filesystem locations a compilation run works with.
type Paths struct {
	Root          string // absolute project root
	ContextDir    string // knowledge store root
	PackagesDir   string // compiled package output
	ExecMemoryDir string // per-feature execution memory records
	FeaturesPath  string
	ForgeTOMLPath string
}

// NewPaths derives all locations from the project root.
func NewPaths(root string) Paths {
	contextDir := filepath.Join(root, ContextDirName)
	return Paths{
		Root:          root,
		ContextDir:    contextDir,
		PackagesDir:   filepath.Join(contextDir, PackagesDir),
		ExecMemoryDir: filepath.Join(root, FeedbackDir, ExecMemoryDir),
		FeaturesPath:  filepath.Join(root, FeaturesFile),
		ForgeTOMLPath: filepath.Join(root, ForgeTOMLFile),
	}
}

// PackagePath returns the on-disk location of a feature's package.
func (p Paths) PackagePath(featureID string) string {
	return filepath.Join(p.PackagesDir, featureID+".md")
}

// PackageRef returns the project-relative, slash-separated path of a
// feature's package, as agents reference it from inside the project.
func (p Paths) PackageRef(featureID string) string {
	rel, err := filepath.Rel(p.Root, p.PackagePath(featureID))
	if err != nil {
		return filepath.ToSlash(p.PackagePath(featureID))
	}
	return filepath.ToSlash(rel)
}

// Rel returns path relative to the project root for display, falling back to
// the input when it lies outside the root.
func (p Paths) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
