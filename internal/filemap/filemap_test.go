package filemap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleInfo() *Info {
	return &Info{
		Name:    "src/store.go",
		Summary: "SQLite-backed store.",
		Lines:   120,
		PublicFunctions: []Function{
			{Name: "Open", Signature: "func Open(path string) (*Store, error)", Summary: "opens the database"},
			{Name: "Close", Signature: "func (s *Store) Close() error", Summary: "releases the handle"},
		},
		PublicTypes: []Type{
			{Name: "Store", Kind: "struct", Summary: "database wrapper"},
		},
		KeyImports: []string{"database/sql", "modernc.org/sqlite"},
	}
}

func TestRender_Placeholder(t *testing.T) {
	t.Parallel()
	got := Render("a.py", nil)
	want := []string{"", "### a.py", "_(not yet analyzed)_"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_FullBlock(t *testing.T) {
	t.Parallel()
	infos := Snapshot{"src/store.go": sampleInfo()}

	got := Render("src/store.go", infos)
	want := []string{
		"",
		"### src/store.go (120 lines)",
		"SQLite-backed store.",
		"",
		"**Functions:**",
		"- `func Open(path string) (*Store, error)` — opens the database",
		"- `func (s *Store) Close() error` — releases the handle",
		"",
		"**Types:**",
		"- `Store` — database wrapper",
		"",
		"**Key imports:** database/sql, modernc.org/sqlite",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EmptyFieldsDifferFromAbsent(t *testing.T) {
	t.Parallel()
	infos := Snapshot{"empty.go": {Name: "empty.go", Summary: "nothing public"}}

	got := Render("empty.go", infos)
	want := []string{"", "### empty.go (0 lines)", "nothing public"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
	for _, line := range got {
		if line == Placeholder {
			t.Fatal("present-but-empty info rendered the placeholder")
		}
	}
}

func TestRenderScope(t *testing.T) {
	t.Parallel()

	if got := RenderScope(nil, nil); got != nil {
		t.Errorf("RenderScope(nil) = %v, want nil", got)
	}

	infos := Snapshot{"b.go": {Name: "b.go", Summary: "b", Lines: 3}}
	got := RenderScope([]string{"a.go", "b.go"}, infos)
	want := []string{
		"", "## Scope Files",
		"", "### a.go", Placeholder,
		"", "### b.go (3 lines)", "b",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderScope mismatch (-want +got):\n%s", diff)
	}
}

func TestInfo_HasAPI(t *testing.T) {
	t.Parallel()
	var nilInfo *Info
	tests := []struct {
		name string
		info *Info
		want bool
	}{
		{"nil", nilInfo, false},
		{"empty", &Info{}, false},
		{"functions only", &Info{PublicFunctions: []Function{{Name: "f"}}}, true},
		{"types only", &Info{PublicTypes: []Type{{Name: "T"}}}, true},
		{"imports only", &Info{KeyImports: []string{"fmt"}}, false},
	}
	for _, tt := range tests {
		if got := tt.info.HasAPI(); got != tt.want {
			t.Errorf("%s: HasAPI() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
