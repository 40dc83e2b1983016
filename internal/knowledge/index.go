package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxSummaryLen bounds the per-entry summary in INDEX.md.
const maxSummaryLen = 80

// Frontmatter is the optional YAML header on reference notes.
type Frontmatter struct {
	Source string   `yaml:"source"`
	Tags   []string `yaml:"tags"`
}

// splitFrontmatter separates a leading "---" fenced YAML block from the body.
// Content without a fence is returned unchanged with a zero Frontmatter.
// Unparsable YAML is still stripped from the body.
func splitFrontmatter(content string) (Frontmatter, string) {
	if !strings.HasPrefix(content, "---") {
		return Frontmatter{}, content
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return Frontmatter{}, content
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return Frontmatter{}, parts[2]
	}
	return fm, parts[2]
}

// summarize returns the first heading or first non-empty line of a note,
// without frontmatter or leading '#' markers.
func summarize(path string) (string, Frontmatter) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "(unreadable)", Frontmatter{}
	}
	fm, body := splitFrontmatter(string(data))
	for _, line := range strings.Split(body, "\n") {
		stripped := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if stripped == "" {
			continue
		}
		if r := []rune(stripped); len(r) > maxSummaryLen {
			stripped = string(r[:maxSummaryLen-3]) + "..."
		}
		return stripped, fm
	}
	return "(empty)", fm
}

// Index renders INDEX.md: one block per non-empty category, one line per
// entry. An empty store renders "".
func (s *Store) Index() string {
	var b strings.Builder
	b.WriteString("# Context Index\n\n")

	total := 0
	for _, cat := range Categories {
		entries := s.List(cat)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s (%d entries)\n", capitalize(cat), len(entries))
		for _, e := range entries {
			summary, fm := summarize(e.Path)
			b.WriteString("- " + e.Slug + ": " + summary)
			if len(fm.Tags) > 0 {
				b.WriteString(" [" + strings.Join(fm.Tags, ", ") + "]")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		total += len(entries)
	}

	if total == 0 {
		return ""
	}
	return b.String()
}

// WriteIndex writes INDEX.md into the store root. It returns the written
// path, or "" when the store is empty and nothing was written.
func (s *Store) WriteIndex() (string, error) {
	index := s.Index()
	if index == "" {
		return "", nil
	}
	path := filepath.Join(s.Dir, IndexFile)
	if err := os.WriteFile(path, []byte(index), 0o644); err != nil {
		return "", fmt.Errorf("knowledge: write index: %w", err)
	}
	return path, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
