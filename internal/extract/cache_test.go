package extract

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ZhiHanZ/forge/internal/filemap"
)

func testCache(t *testing.T) *SQLiteCache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	c, err := OpenCache(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenCache(%q): %v", path, err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCache_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := testCache(t)

	info := &filemap.Info{
		Name:            "src/a.py",
		Summary:         "Adds.",
		Lines:           4,
		PublicFunctions: []filemap.Function{{Name: "add", Signature: "def add(a, b)", Summary: "Sum."}},
	}
	if _, ok, err := c.Get(ctx, "src/a.py", "h1", "haiku"); err != nil || ok {
		t.Fatalf("Get on empty cache = ok %v, err %v", ok, err)
	}
	if err := c.Put(ctx, "src/a.py", "h1", "haiku", info); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(ctx, "src/a.py", "h1", "haiku")
	if err != nil || !ok {
		t.Fatalf("Get after Put = ok %v, err %v", ok, err)
	}
	if diff := cmp.Diff(info, got); diff != "" {
		t.Errorf("cached info mismatch (-want +got):\n%s", diff)
	}

	for _, key := range [][3]string{
		{"src/a.py", "h2", "haiku"},
		{"src/a.py", "h1", "sonnet"},
		{"src/b.py", "h1", "haiku"},
	} {
		if _, ok, _ := c.Get(ctx, key[0], key[1], key[2]); ok {
			t.Errorf("Get%v should miss", key)
		}
	}
}

func TestSQLiteCache_PutReplacesAndPrune(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := testCache(t)

	if err := c.Put(ctx, "a.go", "h1", "m", &filemap.Info{Summary: "old"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(ctx, "a.go", "h1", "m", &filemap.Info{Summary: "new"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _, _ := c.Get(ctx, "a.go", "h1", "m")
	if got == nil || got.Summary != "new" {
		t.Errorf("Put did not replace row: %+v", got)
	}

	if err := c.Put(ctx, "a.go", "h2", "m", &filemap.Info{Summary: "next"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Prune(ctx, "a.go", "h2"); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "a.go", "h1", "m"); ok {
		t.Error("stale generation survived Prune")
	}
	if _, ok, _ := c.Get(ctx, "a.go", "h2", "m"); !ok {
		t.Error("current generation removed by Prune")
	}
}

func TestSQLiteCache_NilSafe(t *testing.T) {
	t.Parallel()
	var c *SQLiteCache
	ctx := context.Background()
	if _, ok, err := c.Get(ctx, "a", "b", "c"); ok || err != nil {
		t.Errorf("nil Get = ok %v, err %v", ok, err)
	}
	if err := c.Put(ctx, "a", "b", "c", &filemap.Info{}); err != nil {
		t.Errorf("nil Put: %v", err)
	}
	if err := c.Prune(ctx, "a", "b"); err != nil {
		t.Errorf("nil Prune: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}
