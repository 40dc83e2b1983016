// Package knowledge reads the project's context/ directory: free-text
// decisions, gotchas, patterns, references and proof-of-concept notes that
// are folded into context packages.
package knowledge

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZhiHanZ/forge/internal/project"
)

// Categories is the fixed visiting order for knowledge entries.
var Categories = []string{"decisions", "gotchas", "patterns", "references", "poc"}

// ScopedCategories are the categories searched when filtering by scope.
var ScopedCategories = []string{"decisions", "gotchas", "patterns"}

// IndexFile is reserved for the generated table of contents and is never
// treated as an entry.
const IndexFile = "INDEX.md"

const entryExt = ".md"

// Entry is one markdown note in a category directory.
type Entry struct {
	Category string
	Slug     string
	Path     string
}

// Ref returns the "category/slug" form used in headings and context hints.
func (e Entry) Ref() string {
	return e.Category + "/" + e.Slug
}

// Store reads knowledge entries rooted at Dir. A missing directory is an
// empty store.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// List returns the entries of one category sorted by filename, skipping
// the index file. A missing or unreadable category yields no entries.
func (s *Store) List(category string) []Entry {
	dir := filepath.Join(s.Dir, category)
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	// os.ReadDir returns entries sorted by filename.
	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, entryExt) || name == IndexFile {
			continue
		}
		entries = append(entries, Entry{
			Category: category,
			Slug:     strings.TrimSuffix(name, entryExt),
			Path:     filepath.Join(dir, name),
		})
	}
	return entries
}

// LoadAll concatenates every non-empty entry across all categories. Each
// entry is headed "### category/slug"; entries are separated by a blank
// line.
func (s *Store) LoadAll() string {
	var sections []string
	for _, cat := range Categories {
		for _, e := range s.List(cat) {
			body := readTrimmed(e.Path)
			if body == "" {
				continue
			}
			sections = append(sections, "### "+e.Ref()+"\n"+body)
		}
	}
	return strings.Join(sections, "\n\n")
}

// LoadForScope returns the decisions, gotchas and patterns whose slug
// loosely matches scope: both sides are lower-cased with hyphens removed
// and the scope must appear as a substring of the slug. Short scope names
// over-match; that recall is wanted.
func (s *Store) LoadForScope(scope string) []string {
	needle := normalizeSlug(scope)
	if needle == "" {
		return nil
	}

	var lines []string
	for _, cat := range ScopedCategories {
		for _, e := range s.List(cat) {
			if !strings.Contains(normalizeSlug(e.Slug), needle) {
				continue
			}
			body := readTrimmed(e.Path)
			if body == "" {
				continue
			}
			lines = append(lines, "", "### "+e.Ref(), body)
		}
	}
	return lines
}

// ReadHint resolves a "category/slug" context hint to its file. exists
// reports whether the file is present; body is its trimmed content. Hints
// that escape the store directory never exist.
func (s *Store) ReadHint(hint string) (body string, exists bool) {
	path, ok := s.hintPath(hint)
	if !ok {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return readTrimmed(path), true
}

// POC returns the trimmed proof-of-concept note for a feature, or "" when
// none exists.
func (s *Store) POC(featureID string) string {
	if !project.ValidID(featureID) {
		return ""
	}
	return readTrimmed(filepath.Join(s.Dir, "poc", featureID+entryExt))
}

func (s *Store) hintPath(hint string) (string, bool) {
	if hint == "" {
		return "", false
	}
	rel := filepath.Clean(filepath.FromSlash(hint) + entryExt)
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(s.Dir, rel), true
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "-", ""))
}

func readTrimmed(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
