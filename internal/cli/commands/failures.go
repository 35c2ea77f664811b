package commands

import (
	"github.com/spf13/cobra"

	"gtr/internal/config"
	"gtr/internal/domain"
	"gtr/internal/storage"
	"gtr/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config *config.Config
	// newViewer creates the failures viewer; replaced in tests
	newViewer func(st storage.Storage) ui.Viewer
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config) *FailuresCommand {
	return &FailuresCommand{
		config: cfg,
		newViewer: newErrorViewer,
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	var (
		results *domain.TestResultsOutput
		st      storage.Storage
		err     error
	)

	if from := fc.config.Flags.From; from != "" {
		results, err = loadReport(from)
		// Resolved flags are written back to JSON reports only
		if err == nil && !isXMLReport(from) {
			st = storage.NewJSONStorage(from)
		}
	} else {
		jsonStorage := storage.NewJSONStorage(fc.config.GetResultsPath())
		results, err = jsonStorage.Load()
		st = jsonStorage
	}
	if err != nil {
		return err
	}

	if fc.config.Flags.Summary {
		ui.NewFormatter(cmd.OutOrStdout()).PrintStats(results)
		return nil
	}
	return fc.newViewer(st).View(results)
}
