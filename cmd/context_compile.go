package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ZhiHanZ/forge/internal/ui"
)

var contextCompileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile context packages once",
	Long: `Extracts file maps for the scope files of active features (when an LLM credential
is set), then writes context/packages/<id>.md for every pending or claimed feature and
every done feature they depend on.`,
	RunE: runContextCompile,
}

func init() {
	contextCmd.AddCommand(contextCompileCmd)
}

func runContextCompile(_ *cobra.Command, _ []string) error {
	ctx, cancel := setupSignalContext(ui.New(false))
	defer cancel()

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.compile(ctx); err != nil {
		s.printer.Failed(err)
		return err
	}
	return nil
}
