package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ZhiHanZ/forge/internal/ui"
	"github.com/ZhiHanZ/forge/internal/watch"
)

var contextWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompile context packages when their inputs change",
	Long: `Compiles once, then recompiles after changes to features.json, forge.toml,
context/<category>/ notes, or feedback/exec-memory/. Writes to context/packages/ are ignored.`,
	RunE: runContextWatch,
}

func init() {
	contextWatchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before recompiling")
	contextCmd.AddCommand(contextWatchCmd)
}

func runContextWatch(cmd *cobra.Command, _ []string) error {
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

	w, err := watch.New(s.paths)
	if err != nil {
		return err
	}
	if d, _ := cmd.Flags().GetDuration("debounce"); d > 0 {
		w.Debounce = d
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	var rels []string
	for _, d := range w.Dirs() {
		rels = append(rels, s.paths.Rel(d)+"/")
	}
	s.printer.Watching(rels)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Changes:
			if !ok {
				return nil
			}
			s.printer.Changed(s.paths.Rel(path))
			if err := s.compile(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// Keep watching: the next change may fix it.
				s.printer.Failed(err)
			}
		}
	}
}
