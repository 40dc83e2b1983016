package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZhiHanZ/forge/internal/config"
	"github.com/ZhiHanZ/forge/internal/knowledge"
	"github.com/ZhiHanZ/forge/internal/ui"
)

var contextIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Write context/INDEX.md summarizing knowledge entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		paths, err := cfg.Paths()
		if err != nil {
			return err
		}
		printer := ui.New(cfg.Verbose)

		path, err := knowledge.NewStore(paths.ContextDir).WriteIndex()
		if err != nil {
			printer.Failed(err)
			return err
		}
		if path == "" {
			printer.IndexWritten("", 0)
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		printer.IndexWritten(paths.Rel(path), int(info.Size()))
		return nil
	},
}

func init() {
	contextCmd.AddCommand(contextIndexCmd)
}
