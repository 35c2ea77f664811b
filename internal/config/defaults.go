package config

const (
	// DefaultConfigFile is read when present and no --config is given
	DefaultConfigFile = "gtr.yaml"
	// DefaultEnvFile is loaded into the environment when present
	DefaultEnvFile = ".env"
	// DefaultResultsFile is the default last-run JSON file name
	DefaultResultsFile = "test-results.json"
	// DefaultResultsDir is the default last-run output directory
	DefaultResultsDir = "storage"
	// DefaultLogLevel is the default diagnostic log level
	DefaultLogLevel = "warn"
	// DefaultHistoryLimit is the default number of runs shown by the history command
	DefaultHistoryLimit = 10
)

// Environment variables read by Load
const (
	EnvOutput       = "GTR_OUTPUT"
	EnvFilter       = "GTR_FILTER"
	EnvLogLevel     = "GTR_LOG_LEVEL"
	EnvBreakOnFatal = "GTR_BREAK_ON_FATAL"
	EnvTimeout      = "GTR_TIMEOUT"
	EnvHistory      = "GTR_HISTORY"
	EnvResults      = "GTR_RESULTS"
	EnvDBDriver     = "GTR_DB_DRIVER"
	EnvDBDSN        = "GTR_DB_DSN"
	EnvDBName       = "GTR_DB_NAME"
)
