package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ZhiHanZ/forge/internal/claude"
	"github.com/ZhiHanZ/forge/internal/config"
	"github.com/ZhiHanZ/forge/internal/driver"
	"github.com/ZhiHanZ/forge/internal/extract"
	"github.com/ZhiHanZ/forge/internal/telemetry"
	"github.com/ZhiHanZ/forge/internal/ui"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Compile and serve per-feature context packages",
	Long: `Compiles one markdown context package per active feature into context/packages/.

Done features that others depend on are compiled first, so pending packages can
show their dependencies' API surface and link to their packages.`,
}

func init() {
	contextCmd.PersistentFlags().String("project", ".", "project directory")
	contextCmd.PersistentFlags().String("model", "haiku", "model used for file extraction")
	contextCmd.PersistentFlags().Int("workers", 4, "parallel extraction workers")
	_ = viper.BindPFlag("project_dir", contextCmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag("extract_model", contextCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("workers", contextCmd.PersistentFlags().Lookup("workers"))
	rootCmd.AddCommand(contextCmd)
}

// session holds the collaborators shared by the context subcommands.
type session struct {
	cfg     config.Config
	paths   config.Paths
	printer *ui.Printer
	driver  *driver.Driver
	cache   *extract.SQLiteCache
	events  *telemetry.Emitter
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	paths, err := cfg.Paths()
	if err != nil {
		return nil, err
	}
	printer := ui.New(cfg.Verbose)
	s := &session{cfg: cfg, paths: paths, printer: printer}

	inv := &claude.Invoker{ClaudePath: cfg.ClaudePath, Verbose: cfg.Verbose}
	hasCredential := config.HasExtractionCredential()
	if hasCredential {
		if err := inv.Validate(); err != nil {
			printer.Warn(fmt.Sprintf("file extraction disabled: %v", err))
			hasCredential = false
		}
	}
	ext := extract.New(hasCredential, inv, cfg.ExtractModel, paths.Root)

	if ext.Enabled() && cfg.CachePath != "" {
		s.cache, err = extract.OpenCache(ctx, cfg.ResolveProjectPath(paths, cfg.CachePath))
		if err != nil {
			printer.Warn(fmt.Sprintf("extraction cache disabled: %v", err))
			s.cache = nil
		}
	}
	if cfg.TelemetryPath != "" {
		s.events, err = telemetry.NewEmitter(cfg.ResolveProjectPath(paths, cfg.TelemetryPath))
		if err != nil {
			printer.Warn(err.Error())
			s.events = nil
		}
	}

	s.driver = &driver.Driver{
		Paths:     paths,
		Extractor: ext,
		Cache:     s.cache,
		Model:     cfg.ExtractModel,
		Workers:   cfg.Workers,
		Reporter:  printer,
		Telemetry: s.events,
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.cache.Close(); err != nil {
		s.printer.Debug(err.Error())
	}
	if err := s.events.Close(); err != nil {
		s.printer.Debug(err.Error())
	}
}

// compile runs the driver once and prints the summary.
func (s *session) compile(ctx context.Context) error {
	res, err := s.driver.Run(ctx)
	if err != nil {
		return err
	}
	if len(res.Written) > 0 || len(res.WriteFailures) > 0 {
		s.printer.Summary(ui.Summary{
			Completed: len(res.Completed),
			Pending:   len(res.Pending),
			Extracted: len(res.Extracted),
			Cached:    res.Cached,
			Failed:    len(res.Failed),
			Written:   len(res.Written),
			Elapsed:   res.Elapsed,
		})
	}
	return nil
}

// setupSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func setupSignalContext(printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		printer.Info("\nshutting down...")
		cancel()
	}()
	return ctx, cancel
}
