// Package mcpserver exposes compiled context packages to coding agents over
// the Model Context Protocol (stdio transport).
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ZhiHanZ/forge/internal/config"
	"github.com/ZhiHanZ/forge/internal/driver"
)

// Version is reported to MCP clients. Set at build time via ldflags.
var Version = "dev"

// Compiler runs one compile. *driver.Driver satisfies it.
type Compiler interface {
	Run(ctx context.Context) (driver.Result, error)
}

const instructions = `forge serves per-feature context packages.
Call context_list to see features and whether their package exists,
context_package to read one, and context_compile after changing features.json,
forge.toml, context notes, or execution memory.`

// New builds the MCP server with all tools registered.
func New(paths config.Paths, compiler Compiler) *server.MCPServer {
	s := server.NewMCPServer(
		"forge-context",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	pkg := NewPackageTool(paths)
	s.AddTool(pkg.Definition(), pkg.Handle)

	list := NewListTool(paths)
	s.AddTool(list.Definition(), list.Handle)

	compile := NewCompileTool(compiler)
	s.AddTool(compile.Definition(), compile.Handle)

	return s
}

// ServeStdio blocks serving s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
