package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ZhiHanZ/forge/internal/mcpserver"
)

var contextServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve context packages over MCP (stdio)",
	Long: `Starts an MCP server on stdin/stdout with the tools context_package,
context_list and context_compile. Progress and warnings go to stderr.`,
	RunE: runContextServe,
}

func init() {
	contextCmd.AddCommand(contextServeCmd)
}

func runContextServe(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	return mcpserver.ServeStdio(mcpserver.New(s.paths, s.driver))
}
