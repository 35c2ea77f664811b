package cli

import (
	"time"

	"gtr/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigFile   string
	EnvFile      string
	Output       string
	GTestOutput  string
	Filter       string
	LogLevel     string
	History      string
	Timeout      time.Duration
	BreakOnFatal bool
	Progress     bool
	Summary      bool
	Verbose      bool
	NoColor      bool
	OnlyFailed   bool
	OpenFailures bool
	Tests        bool
	From         string
	Limit        int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:   f.ConfigFile,
		EnvFile:      f.EnvFile,
		Output:       f.Output,
		GTestOutput:  f.GTestOutput,
		Filter:       f.Filter,
		LogLevel:     f.LogLevel,
		History:      f.History,
		Timeout:      f.Timeout,
		BreakOnFatal: f.BreakOnFatal,
		Progress:     f.Progress,
		Summary:      f.Summary,
		Verbose:      f.Verbose,
		NoColor:      f.NoColor,
		OnlyFailed:   f.OnlyFailed,
		OpenFailures: f.OpenFailures,
		Tests:        f.Tests,
		From:         f.From,
		Limit:        f.Limit,
	}
}
