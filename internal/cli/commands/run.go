package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gtr/internal/aggregate"
	"gtr/internal/config"
	"gtr/internal/discovery"
	"gtr/internal/domain"
	"gtr/internal/environment"
	"gtr/internal/execution"
	"gtr/internal/report"
	"gtr/internal/storage"
	"gtr/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config   *config.Config
	registry *discovery.Registry
	// newViewer creates the failures viewer; replaced in tests
	newViewer func(st storage.Storage) ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, registry *discovery.Registry) *RunCommand {
	return &RunCommand{
		config:   cfg,
		registry: registry,
		newViewer: newErrorViewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.config
	out := cmd.OutOrStdout()

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	// Validate the report destination before running anything
	output, err := report.ParseOutput(cfg.Output)
	if err != nil {
		return err
	}

	results := storage.NewJSONStorage(cfg.GetResultsPath())
	suites, err := rc.selectSuites(args, results)
	if err != nil {
		return err
	}
	if cfg.Flags.OnlyFailed && len(suites) == 0 {
		fmt.Fprintln(out, color.YellowString("No failed tests in the last run"))
		return nil
	}

	runner := execution.NewRunner(rc.environment(), rc.reporter(cmd), execution.Options{
		BreakOnFatal: cfg.BreakOnFatal,
		Timeout:      cfg.Timeout,
	}, logger)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	run, runErr := runner.Run(ctx, suites)
	if runErr != nil && !errors.Is(runErr, execution.ErrFatalFailure) {
		logger.Warn("Run interrupted", "error", runErr)
	}

	// Write report
	if err := report.Write(output, run); err != nil {
		return fmt.Errorf("failed to write %s report: %w", output.Format, err)
	}
	logger.Debug("Report written", "output", output.String())

	// Save results
	if err := results.Save(run); err != nil {
		logger.Warn("Failed to save last run", "path", results.Path(), "error", err)
	}
	if cfg.History != "" {
		if err := rc.saveHistory(commandContext(cmd), run, logger); err != nil {
			return err
		}
	}

	if cfg.Flags.Summary {
		ui.NewFormatter(out).PrintSummary(run)
	}
	if cfg.Flags.OpenFailures && run.Failures > 0 {
		if err := rc.newViewer(results).View(storage.BuildOutput(run)); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if run.Failures > 0 {
		return fmt.Errorf("%w: %d of %d", ErrTestsFailed, run.Failures, run.Tests)
	}
	return nil
}

// selectSuites applies the configured filters and positional filters. With
// --failed the selection is further reduced to the last run's failures.
func (rc *RunCommand) selectSuites(args []string, results storage.Storage) ([]domain.Suite, error) {
	filters := append(append([]string{}, rc.config.Filters...), args...)
	suites := discovery.NewFilter(filters...).Apply(rc.registry.Suites())
	if !rc.config.Flags.OnlyFailed {
		return suites, nil
	}

	last, err := results.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load last run: %w", err)
	}
	failed := failedSet(last)
	if len(failed) == 0 {
		return nil, nil
	}
	return discovery.SelectNames(suites, failed), nil
}

func (rc *RunCommand) environment() environment.Environment {
	db := rc.config.Database
	if db.Driver == "" {
		return environment.Nop{}
	}
	return environment.NewDatabase(environment.DatabaseConfig{
		Driver: db.Driver,
		DSN:    db.DSN,
		Name:   db.Name,
	})
}

// reporter builds the console reporter, plus the progress bar on stderr when requested
func (rc *RunCommand) reporter(cmd *cobra.Command) execution.Reporter {
	opts := []report.ConsoleOption{report.WithVerbose(rc.config.Flags.Verbose)}
	if rc.config.Flags.NoColor {
		opts = append(opts, report.WithNoColor())
	}
	reporters := []execution.Reporter{report.NewConsole(cmd.OutOrStdout(), opts...)}
	if rc.config.Flags.Progress {
		reporters = append(reporters, ui.NewProgressBar(cmd.ErrOrStderr()))
	}
	return execution.MultiReporter(reporters...)
}

func (rc *RunCommand) saveHistory(ctx context.Context, run aggregate.Run, logger *log.Logger) error {
	st, err := openHistory(ctx, rc.config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveContext(ctx, run); err != nil {
		return fmt.Errorf("failed to save run history: %w", err)
	}
	logger.Info("Run recorded", "run_id", run.ID)
	return nil
}
