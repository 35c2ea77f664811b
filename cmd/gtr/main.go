package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gtr/internal/cli"
	"gtr/internal/cli/commands"
	"gtr/internal/config"
	"gtr/internal/discovery"
	_ "gtr/internal/samples"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "gtr",
		Short:         "gtest-style test runner",
		Long:          `Runs registered test suites sequentially with per-test cleanup stacks and reports the results as gtest-style console output, JUnit XML or JSON.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, discovery.Default)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		// Failed tests were already reported by the console reporter
		if !errors.Is(err, commands.ErrTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
