package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/bigofit/internal/config"
	"github.com/haskel/bigofit/internal/logger"
)

var (
	// Global flags
	cfgFile  string
	jsonOut  bool
	verbose  bool
	logLevel string

	// Version info (set from main)
	Version = "0.1.0"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bigofit [file]",
	Short: "Infer the asymptotic complexity of measured runtimes",
	Long: `Bigofit reads (input size, runtime) measurements and reports which
growth function (O(1), O(log n), O(n), O(n log n), O(n^2), O(n^2 log n),
O(n^3), O(2^n)) explains them best.

Input is a count followed by that many size/runtime pairs, read from the
given file or from stdin. Running bigofit without a subcommand is the same
as running "bigofit analyze".`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runAnalyze,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML, or TOML with .toml extension)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	addAnalyzeFlags(rootCmd)
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// IsJSON returns whether JSON output is enabled
func IsJSON() bool {
	return jsonOut
}

// IsVerbose returns whether verbose output is enabled
func IsVerbose() bool {
	return verbose
}

// loadConfig resolves the config file and applies the global logging flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(GetConfigFile())
	if err != nil {
		return nil, err
	}

	switch {
	case logLevel != "":
		cfg.Logging.Level = logLevel
	case IsVerbose():
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
}
