package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitFrontmatter(t *testing.T) {
	t.Parallel()

	fm, body := splitFrontmatter("---\nsource: https://x.dev\ntags: [a, b]\n---\n\nBody")
	if fm.Source != "https://x.dev" {
		t.Errorf("Source = %q", fm.Source)
	}
	if diff := cmp.Diff([]string{"a", "b"}, fm.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if body != "\n\nBody" {
		t.Errorf("body = %q", body)
	}

	fm, body = splitFrontmatter("# Plain\ntext")
	if fm.Source != "" || body != "# Plain\ntext" {
		t.Errorf("plain content altered: %+v %q", fm, body)
	}

	fm, body = splitFrontmatter("---\n: : bad yaml [\n---\nrest")
	if fm.Source != "" || len(fm.Tags) != 0 {
		t.Errorf("bad yaml produced frontmatter %+v", fm)
	}
	if body != "\nrest" {
		t.Errorf("bad yaml body = %q", body)
	}
}

func TestStore_Index(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	writeNote(t, s.Dir, "patterns", "long.md", "## "+strings.Repeat("x", 100))

	got := s.Index()
	want := "# Context Index\n\n" +
		"## Decisions (2 entries)\n" +
		"- api-versioning: Version under /v1.\n" +
		"- use-sqlite: Use SQLite\n" +
		"\n" +
		"## Gotchas (2 entries)\n" +
		"- blank: (empty)\n" +
		"- http-api-timeouts: Set read timeouts.\n" +
		"\n" +
		"## Patterns (2 entries)\n" +
		"- HttpApi-handlers: Handlers return errors.\n" +
		"- long: " + strings.Repeat("x", 77) + "...\n" +
		"\n" +
		"## References (1 entries)\n" +
		"- rpc: RPC guide [rpc, net]\n" +
		"\n" +
		"## Poc (1 entries)\n" +
		"- f1: POC passed: 3ms p99.\n" +
		"\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Index mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_WriteIndex(t *testing.T) {
	t.Parallel()

	empty := NewStore(t.TempDir())
	path, err := empty.WriteIndex()
	if err != nil {
		t.Fatalf("WriteIndex on empty store: %v", err)
	}
	if path != "" {
		t.Errorf("empty store wrote %q", path)
	}

	s := testStore(t)
	path, err = s.WriteIndex()
	if err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}
	if path != filepath.Join(s.Dir, IndexFile) {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Context Index") {
		t.Errorf("unexpected index content: %q", data)
	}

	// The root index must not leak into LoadAll.
	if strings.Contains(s.LoadAll(), "Context Index") {
		t.Error("LoadAll included INDEX.md")
	}
}
