package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haskel/bigofit/internal/config"
	"github.com/haskel/bigofit/internal/dataset"
	"github.com/haskel/bigofit/internal/fit"
	"github.com/haskel/bigofit/internal/history"
	"github.com/haskel/bigofit/internal/hostinfo"
	"github.com/haskel/bigofit/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Rank growth functions against a dataset",
	Long: `Fit every candidate growth function to the measurements and print the
one with the lowest error. Per-candidate diagnostics go to stderr.

Examples:
  bigofit analyze timings.txt
  printf '3\n10 100\n100 10000\n1000 1000000\n' | bigofit analyze
  bigofit analyze --input-format json --format table timings.json
  bigofit analyze --candidates linear,quadratic --diagnostics none data.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	outputFormat string
	inputFormat  string
	diagnostics  string
	narrowing    string
	parallel     bool
	candidates   string
	sortInput    bool
	saveRun      bool
)

func init() {
	addAnalyzeFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// addAnalyzeFlags registers the analysis flags on cmd. The root command
// carries them too so that "bigofit file" works without a subcommand.
func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outputFormat, "format", "", "output format: label, table, json, yaml")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: text, json, yaml")
	cmd.Flags().StringVar(&diagnostics, "diagnostics", "", "stderr diagnostics: legacy, table, none")
	cmd.Flags().StringVar(&narrowing, "narrowing", "", "interval narrowing: symmetric, legacy")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "fit candidates concurrently")
	cmd.Flags().StringVar(&candidates, "candidates", "", "comma-separated growth functions to consider (name or label)")
	cmd.Flags().BoolVar(&sortInput, "sort", false, "sort observations by size before fitting")
	cmd.Flags().BoolVar(&saveRun, "save", false, "record the run in history")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	log := newLogger(cmd, cfg)

	fitCfg, err := cfg.FitSettings()
	if err != nil {
		return err
	}

	fromStdin := len(args) == 0 || args[0] == "-"
	source := "stdin"
	if !fromStdin {
		source = args[0]
	}

	ds, err := readDataset(cmd, source, fromStdin, cfg.InputFormat())
	if err != nil {
		return err
	}
	if cfg.Input.Sort {
		ds = dataset.SortBySize(ds)
	}
	dataset.LogWarnings(log, ds)

	log.Debug("dataset loaded",
		"source", source,
		"observations", len(ds),
		"narrowing", fitCfg.Narrowing,
		"candidates", len(fitCfg.Functions),
		"parallel", fitCfg.Parallel,
	)

	reporter, err := report.NewReporter(cmd.ErrOrStderr(), cfg.Diagnostics(), cfg.ColorMode())
	if err != nil {
		return err
	}

	ranker := fit.NewRanker(fitCfg, reporter, log)
	ranking, err := ranker.Rank(cmd.Context(), ds)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	save := saveRun || cfg.History.Enabled
	format := cfg.OutputFormat()

	var host *hostinfo.Info
	if cfg.History.HostInfo && (save || format == report.FormatJSON || format == report.FormatYAML) {
		host = hostinfo.Collect(cmd.Context(), hostinfo.DefaultCollectors(), log)
	}

	doc := report.NewDocument(len(ds), ranking, host)
	if err := report.Write(cmd.OutOrStdout(), doc, format, cfg.ColorMode()); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if save {
		if err := saveRecord(cmd, cfg, log, history.NewRecord(source, len(ds), fitCfg.Narrowing, ranking, host)); err != nil {
			return err
		}
	}

	return nil
}

// applyAnalyzeFlags overrides config values with explicitly set flags.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if IsJSON() {
		cfg.Output.Format = string(report.FormatJSON)
	}
	if flags.Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if flags.Changed("input-format") {
		cfg.Input.Format = inputFormat
	}
	if flags.Changed("diagnostics") {
		cfg.Output.Diagnostics = diagnostics
	}
	if flags.Changed("narrowing") {
		cfg.Fit.Narrowing = narrowing
	}
	if flags.Changed("parallel") {
		cfg.Fit.Parallel = parallel
	}
	if flags.Changed("candidates") {
		cfg.Fit.Candidates = splitList(candidates)
	}
	if flags.Changed("sort") {
		cfg.Input.Sort = sortInput
	}
}

// readDataset reads from the command input when fromStdin is set and from
// the file named by source otherwise.
func readDataset(cmd *cobra.Command, source string, fromStdin bool, format dataset.Format) (fit.Dataset, error) {
	var r io.Reader = cmd.InOrStdin()
	if !fromStdin {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		defer file.Close()
		r = file
	}

	ds, err := dataset.Read(r, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return ds, nil
}

func saveRecord(cmd *cobra.Command, cfg *config.Config, log *slog.Logger, rec history.Record) error {
	path := cfg.History.HistoryPath()
	store, err := history.Open(cfg.History.Backend, path, log)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), rec); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	log.Info("run saved", "id", rec.ID, "backend", cfg.History.Backend, "path", path)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
