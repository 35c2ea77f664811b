package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gtr/internal/config"
)

// MigrateCommand handles the migrate command
type MigrateCommand struct {
	config *config.Config
}

// NewMigrateCommand creates a new MigrateCommand
func NewMigrateCommand(cfg *config.Config) *MigrateCommand {
	return &MigrateCommand{config: cfg}
}

// Execute runs the command. Opening the history database applies pending migrations.
func (mc *MigrateCommand) Execute(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd, mc.config)
	if err != nil {
		return err
	}

	st, err := openHistory(commandContext(cmd), mc.config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	version, dirty, err := st.SchemaVersion()
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("history schema is dirty at version %d", version)
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ History schema at version %d", version))
	return nil
}
