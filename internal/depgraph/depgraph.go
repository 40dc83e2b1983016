// Package depgraph models the depends_on relation between features as a
// directed acyclic graph. It reports dangling and cyclic dependencies and
// orders features so that dependencies come before dependents.
package depgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ZhiHanZ/forge/internal/project"
)

// ErrCycle is returned when the graph contains a dependency cycle.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an edge references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// ErrSelfEdge is returned when an edge would create a self-loop.
var ErrSelfEdge = errors.New("self-referencing edge")

// Graph holds feature nodes and their dependency edges.
// Edges point from a feature to its dependencies: if A depends on B,
// there is an edge from A to B.
type Graph struct {
	// priority holds each node's priority; lower values sort first.
	priority map[string]int
	// adjacency maps nodeID → set of dependency IDs (forward edges).
	adjacency map[string]map[string]bool
	// reverse maps nodeID → set of dependent IDs (backward edges).
	reverse map[string]map[string]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		priority:  make(map[string]int),
		adjacency: make(map[string]map[string]bool),
		reverse:   make(map[string]map[string]bool),
	}
}

// AddNode adds a node. Returns ErrDuplicateNode if the ID already exists.
func (g *Graph) AddNode(id string, priority int) error {
	if _, exists := g.priority[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	g.priority[id] = priority
	g.adjacency[id] = make(map[string]bool)
	g.reverse[id] = make(map[string]bool)
	return nil
}

// AddEdge records that from depends on to. Both nodes must exist and the
// edge must not close a cycle.
func (g *Graph) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("%w: %s", ErrSelfEdge, from)
	}
	if _, ok := g.priority[from]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	if _, ok := g.priority[to]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	if g.adjacency[from][to] {
		return nil
	}
	// A path to → … → from plus from → to would close a loop.
	if g.hasPath(to, from) {
		return fmt.Errorf("%w: edge %s → %s would create a cycle", ErrCycle, from, to)
	}
	g.adjacency[from][to] = true
	g.reverse[to][from] = true
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.priority)
}

// TopologicalSort returns node IDs with dependencies before dependents.
// Among nodes freed at the same time, lower priority values come first,
// then IDs alphabetically.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.priority))
	for id := range g.priority {
		inDegree[id] = len(g.adjacency[id])
	}

	var seed []string
	for id, deg := range inDegree {
		if deg == 0 {
			seed = append(seed, id)
		}
	}
	queue := g.prioritySorted(seed)

	sorted := make([]string, 0, len(g.priority))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		var freed []string
		for dependent := range g.reverse[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				freed = append(freed, dependent)
			}
		}
		queue = append(queue, g.prioritySorted(freed)...)
	}

	if len(sorted) != len(g.priority) {
		return nil, fmt.Errorf("%w: not all nodes could be ordered (%d of %d)",
			ErrCycle, len(sorted), len(g.priority))
	}
	return sorted, nil
}

// hasPath reports whether there is a directed path from src to dst.
func (g *Graph) hasPath(src, dst string) bool {
	if src == dst {
		return false
	}
	visited := make(map[string]bool)
	queue := []string{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dep := range g.adjacency[cur] {
			if dep == dst {
				return true
			}
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return false
}

func (g *Graph) prioritySorted(ids []string) []string {
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := g.priority[ids[i]], g.priority[ids[j]]
		if pi != pj {
			return pi < pj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Problem describes a dependency declaration the graph could not accept.
// Problems are advisory: compilation proceeds regardless.
type Problem struct {
	FeatureID string
	DepID     string
	Err       error
}

func (p Problem) Error() string {
	if p.DepID == "" {
		return "feature " + p.FeatureID + ": " + p.Err.Error()
	}
	return "feature " + p.FeatureID + " → " + p.DepID + ": " + p.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (p Problem) Unwrap() error {
	return p.Err
}

// Build constructs the graph for a feature list. Duplicate IDs, unknown
// dependency IDs, self-dependencies and cycle-closing edges are skipped and
// reported as problems in feature order.
func Build(features []project.Feature) (*Graph, []Problem) {
	g := New()
	var problems []Problem

	for _, f := range features {
		if err := g.AddNode(f.ID, f.Priority); err != nil {
			problems = append(problems, Problem{FeatureID: f.ID, Err: err})
		}
	}
	for _, f := range features {
		for _, dep := range f.DependsOn {
			if err := g.AddEdge(f.ID, dep); err != nil {
				problems = append(problems, Problem{FeatureID: f.ID, DepID: dep, Err: err})
			}
		}
	}
	return g, problems
}
