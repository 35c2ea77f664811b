package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gtr/internal/cli"
	"gtr/internal/config"
	"gtr/internal/discovery"
	"gtr/internal/domain"
	"gtr/internal/logging"
	"gtr/internal/report"
	"gtr/internal/storage"
	"gtr/internal/ui"
)

// ErrTestsFailed is returned by the run command when at least one test failed.
// The failures have already been reported, so callers only set the exit code.
var ErrTestsFailed = errors.New("tests failed")

// ErrNoHistory is returned by commands that need a history database when none is configured
var ErrNoHistory = errors.New("history database not configured (use --history or " + config.EnvHistory + ")")

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
	History  *HistoryCommand
	Migrate  *MigrateCommand
}

// NewCommands creates all commands with dependencies. Tests are taken from registry.
func NewCommands(cfg *config.Config, registry *discovery.Registry) *Commands {
	return &Commands{
		Run:      NewRunCommand(cfg, registry),
		List:     NewListCommand(cfg, registry),
		Failures: NewFailuresCommand(cfg),
		History:  NewHistoryCommand(cfg),
		Migrate:  NewMigrateCommand(cfg),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Update config with flags after parsing
	loadConfig := func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		if cfg.Flags.NoColor {
			color.NoColor = true
		}
		return nil
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&flags.ConfigFile, "config", "", "Path to the YAML config file (default "+config.DefaultConfigFile+" when present)")
	persistent.StringVar(&flags.EnvFile, "env-file", "", "Path to the .env file (default "+config.DefaultEnvFile+" when present)")
	persistent.StringVar(&flags.LogLevel, "log-level", "", "Diagnostic log level: debug, info, warn or error")
	persistent.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	persistent.StringVar(&flags.History, "history", "", "History database as <driver>:<dsn> (mysql or sqlite3)")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run [filters...]",
		Short:   "Run the registered tests",
		Long:    "Run the registered test suites one test at a time and report the results in gtest style",
		RunE:    c.Run.Execute,
		PreRunE: loadConfig,
	}
	runCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Structured report as <format>:<path> (xml or json)")
	runCmd.Flags().StringVar(&flags.GTestOutput, "gtest_output", "", "Alias of --output")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Comma separated suites, suite.test names or wildcard patterns to run")
	runCmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar on stderr")
	runCmd.Flags().BoolVar(&flags.Summary, "summary", false, "Print a summary table when the run finishes")
	runCmd.Flags().BoolVar(&flags.BreakOnFatal, "break-on-fatal", false, "Stop the run at the first fatal failure")
	runCmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Per-test deadline on the test context (0 disables it)")
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print stack traces of failures and debug logs")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only tests that failed in the last run")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list [filters...]",
		Short:   "List registered tests",
		Long:    "List the registered test suites without running them, marking tests that failed in the last run",
		RunE:    c.List.Execute,
		PreRunE: loadConfig,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Comma separated suites, suite.test names or wildcard patterns to list")
	listCmd.Flags().BoolVarP(&flags.Tests, "tests", "t", false, "List tests instead of suites only")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View test failures interactively",
		Long:    "Display test failures from the last test run, or from a JSON or JUnit XML report, in an interactive viewer",
		RunE:    c.Failures.Execute,
		PreRunE: loadConfig,
	}
	failuresCmd.Flags().StringVar(&flags.From, "from", "", "Read failures from a JSON or JUnit XML report instead of the last run")
	failuresCmd.Flags().BoolVar(&flags.Summary, "stats", false, "Print failure statistics instead of opening the viewer")
	rootCmd.AddCommand(failuresCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recent runs",
		Long:    "Show the most recent runs recorded in the history database",
		RunE:    c.History.Execute,
		PreRunE: loadConfig,
	}
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", config.DefaultHistoryLimit, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Migrate the history database",
		Long:    "Create or upgrade the run history schema in the configured MySQL or SQLite database",
		RunE:    c.Migrate.Execute,
		PreRunE: loadConfig,
	}
	rootCmd.AddCommand(migrateCmd)
}

// commandContext returns the command's context, or Background when it runs outside cobra's Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*log.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
}

// openHistory opens the configured history database
func openHistory(ctx context.Context, cfg *config.Config, logger *log.Logger) (*storage.SQLStorage, error) {
	if cfg.History == "" {
		return nil, ErrNoHistory
	}
	driver, dsn, err := storage.ParseHistory(cfg.History)
	if err != nil {
		return nil, err
	}
	return storage.OpenSQL(ctx, driver, dsn, logger)
}

// loadReport reads failures from a report file, JUnit XML by extension and JSON otherwise
func loadReport(path string) (*domain.TestResultsOutput, error) {
	if isXMLReport(path) {
		doc, err := report.ReadJUnitFile(path)
		if err != nil {
			return nil, err
		}
		return doc.Output(), nil
	}
	output, err := storage.NewJSONStorage(path).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return output, nil
}

func isXMLReport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), "."+report.FormatXML)
}

func newErrorViewer(st storage.Storage) ui.Viewer {
	return ui.NewErrorViewer(st)
}

// failedSet returns the qualified names of the failed tests in output
func failedSet(output *domain.TestResultsOutput) map[string]struct{} {
	failed := make(map[string]struct{})
	if output == nil {
		return failed
	}
	for _, detail := range output.Details {
		failed[detail.TestName] = struct{}{}
	}
	return failed
}
