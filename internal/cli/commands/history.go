package commands

import (
	"github.com/spf13/cobra"

	"gtr/internal/config"
	"gtr/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config *config.Config
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config) *HistoryCommand {
	return &HistoryCommand{config: cfg}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd, hc.config)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	st, err := openHistory(ctx, hc.config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Recent(ctx, hc.config.Flags.Limit)
	if err != nil {
		return err
	}
	ui.NewFormatter(cmd.OutOrStdout()).PrintHistory(runs)
	return nil
}
