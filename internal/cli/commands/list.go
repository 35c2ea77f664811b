package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gtr/internal/config"
	"gtr/internal/discovery"
	"gtr/internal/storage"
	"gtr/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config   *config.Config
	registry *discovery.Registry
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, registry *discovery.Registry) *ListCommand {
	return &ListCommand{
		config:   cfg,
		registry: registry,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	filters := append(append([]string{}, lc.config.Filters...), args...)
	suites := discovery.NewFilter(filters...).Apply(lc.registry.Suites())
	if len(suites) == 0 {
		fmt.Fprintln(out, color.YellowString("No tests found"))
		return nil
	}

	// Mark failures from the last run when there is one
	var failed map[string]struct{}
	if last, err := storage.NewJSONStorage(lc.config.GetResultsPath()).Load(); err == nil {
		failed = failedSet(last)
	}

	ui.NewFormatter(out).PrintTestList(suites, lc.config.Flags.Tests, failed)
	return nil
}
