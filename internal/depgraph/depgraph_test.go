package depgraph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ZhiHanZ/forge/internal/project"
)

func TestAddEdge_Errors(t *testing.T) {
	t.Parallel()
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		if err := g.AddNode(id, 1); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	if err := g.AddNode("a", 1); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("duplicate AddNode error = %v, want ErrDuplicateNode", err)
	}

	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatalf("AddEdge(a, b): %v", err)
	}
	if err := g.AddEdge("b", "c"); err != nil {
		t.Fatalf("AddEdge(b, c): %v", err)
	}
	if err := g.AddEdge("a", "b"); err != nil {
		t.Errorf("repeated edge should be a no-op, got %v", err)
	}

	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"self edge", "a", "a", ErrSelfEdge},
		{"missing from", "z", "a", ErrNodeNotFound},
		{"missing to", "a", "z", ErrNodeNotFound},
		{"cycle", "c", "a", ErrCycle},
	}
	for _, tt := range tests {
		if err := g.AddEdge(tt.from, tt.to); !errors.Is(err, tt.want) {
			t.Errorf("%s: AddEdge(%q, %q) = %v, want %v", tt.name, tt.from, tt.to, err, tt.want)
		}
	}
}

func TestTopologicalSort(t *testing.T) {
	t.Parallel()
	features := []project.Feature{
		{ID: "api", Priority: 1, DependsOn: []string{"core", "auth"}},
		{ID: "core", Priority: 2},
		{ID: "auth", Priority: 1, DependsOn: []string{"core"}},
		{ID: "docs", Priority: 1},
	}
	g, problems := Build(features)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}

	got, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort: %v", err)
	}
	want := []string{"docs", "core", "auth", "api"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopologicalSort mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ReportsProblems(t *testing.T) {
	t.Parallel()
	features := []project.Feature{
		{ID: "a", DependsOn: []string{"b", "ghost"}},
		{ID: "b", DependsOn: []string{"a"}},
		{ID: "c", DependsOn: []string{"c"}},
		{ID: "a"},
	}
	g, problems := Build(features)
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}

	want := []error{ErrDuplicateNode, ErrNodeNotFound, ErrCycle, ErrSelfEdge}
	if len(problems) != len(want) {
		t.Fatalf("got %d problems %v, want %d", len(problems), problems, len(want))
	}
	for i, p := range problems {
		if !errors.Is(p, want[i]) {
			t.Errorf("problem %d = %v, want %v", i, p, want[i])
		}
	}
	if got := problems[1].Error(); got != "feature a → ghost: node not found: ghost" {
		t.Errorf("problem message = %q", got)
	}

	if _, err := g.TopologicalSort(); err != nil {
		t.Errorf("graph with rejected edges should still sort: %v", err)
	}
}
