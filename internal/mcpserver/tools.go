package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ZhiHanZ/forge/internal/config"
	"github.com/ZhiHanZ/forge/internal/depgraph"
	"github.com/ZhiHanZ/forge/internal/project"
)

// PackageTool handles context_package: read one compiled package.
type PackageTool struct {
	paths config.Paths
}

func NewPackageTool(paths config.Paths) *PackageTool {
	return &PackageTool{paths: paths}
}

func (t *PackageTool) Definition() mcp.Tool {
	return mcp.NewTool("context_package",
		mcp.WithDescription(
			"Return the compiled context package for a feature: scope file maps, "+
				"dependency API surface, project knowledge and previous attempts. "+
				"Read this before starting work on a feature.",
		),
		mcp.WithString("feature_id",
			mcp.Required(),
			mcp.Description("Feature id from features.json"),
		),
	)
}

func (t *PackageTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("feature_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'feature_id' is required"), nil
	}
	if !project.ValidID(id) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid feature id %q", id)), nil
	}

	data, err := os.ReadFile(t.paths.PackagePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"no package for %q. Only pending, claimed, and depended-upon done features get one; call context_compile to refresh.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading package: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ListTool handles context_list: features in dependency order.
type ListTool struct {
	paths config.Paths
}

func NewListTool(paths config.Paths) *ListTool {
	return &ListTool{paths: paths}
}

func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("context_list",
		mcp.WithDescription(
			"List features with status, scope and package availability, "+
				"dependencies before dependents.",
		),
		mcp.WithString("status",
			mcp.Description("Only list features with this status: pending, claimed, done or blocked"),
		),
	)
}

func (t *ListTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	features, err := project.LoadFeatures(t.paths.FeaturesPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading features: %v", err)), nil
	}
	if len(features) == 0 {
		return mcp.NewToolResultText("No features found."), nil
	}
	filter := project.ParseStatus(req.GetString("status", ""))

	byID := project.Index(features)
	var sb strings.Builder
	sb.WriteString("| Feature | Status | Scope | Depends on | Package |\n")
	sb.WriteString("|---------|--------|-------|------------|---------|\n")
	n := 0
	for _, id := range dependencyOrder(features) {
		f := byID[id]
		if filter != "" && f.Status != filter {
			continue
		}
		pkg := "-"
		if project.ValidID(f.ID) {
			if _, err := os.Stat(t.paths.PackagePath(f.ID)); err == nil {
				pkg = "`" + t.paths.PackageRef(f.ID) + "`"
			}
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			f.ID, f.Status, orDash(f.Scope), orDash(strings.Join(f.DependsOn, ", ")), pkg)
		n++
	}
	if n == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No features with status %q.", filter)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// dependencyOrder returns feature ids with dependencies first. Edges the
// graph rejects (cycles, unknown ids) are ignored, so every id appears.
func dependencyOrder(features []project.Feature) []string {
	g, _ := depgraph.Build(features)
	order, err := g.TopologicalSort()
	if err == nil {
		return order
	}
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if !seen[f.ID] {
			seen[f.ID] = true
			order = append(order, f.ID)
		}
	}
	return order
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// CompileTool handles context_compile: rerun the compiler. Calls are
// serialized.
type CompileTool struct {
	compiler Compiler
	mu       sync.Mutex
}

func NewCompileTool(compiler Compiler) *CompileTool {
	return &CompileTool{compiler: compiler}
}

func (t *CompileTool) Definition() mcp.Tool {
	return mcp.NewTool("context_compile",
		mcp.WithDescription(
			"Recompile all context packages from features.json, forge.toml, "+
				"context notes and execution memory. Returns the written packages.",
		),
	)
}

func (t *CompileTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	res, err := t.compiler.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Compiled %d completed and %d pending package(s) in %s.\n",
		len(res.Completed), len(res.Pending), res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&sb, "Files extracted: %d (%d cached), failed: %d.\n",
		len(res.Extracted), res.Cached, len(res.Failed))
	for _, w := range res.Written {
		fmt.Fprintf(&sb, "- %s\n", w)
	}
	for _, id := range res.WriteFailures {
		fmt.Fprintf(&sb, "- %s: write failed\n", id)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
