package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/haskel/bigofit/internal/history"
	"github.com/haskel/bigofit/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved analysis runs",
	Long: `List runs recorded with "analyze --save" or history.enabled, newest first.

Examples:
  bigofit history
  bigofit history --limit 5
  bigofit history show 3f2a`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved run",
	Long:  `Print a saved run. The id may be any unique prefix of the run id.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var (
	historyLimit int
	showFormat   string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list (0 for all)")
	historyShowCmd.Flags().StringVar(&showFormat, "format", "table", "output format: label, table, json, yaml")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(cmd *cobra.Command) (history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.History.Backend, cfg.History.HistoryPath(), newLogger(cmd, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()

	if IsJSON() {
		if records == nil {
			records = []history.Record{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			shortID(rec.ID),
			humanize.Time(rec.CreatedAt),
			rec.Verdict.Label,
			strconv.Itoa(rec.Observations),
			rec.Source,
		})
	}

	lines := report.FormatColumns(
		[]string{"ID", "WHEN", "VERDICT", "POINTS", "SOURCE"},
		rows,
		map[int]bool{3: true},
	)
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	format := report.Format(showFormat)
	if IsJSON() {
		format = report.FormatJSON
	}

	out := cmd.OutOrStdout()
	if format == report.FormatTable {
		fmt.Fprintf(out, "Run:       %s\n", rec.ID)
		fmt.Fprintf(out, "Recorded:  %s (%s)\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(rec.CreatedAt))
		fmt.Fprintf(out, "Source:    %s\n", rec.Source)
		fmt.Fprintf(out, "Narrowing: %s\n", rec.Narrowing)
		if rec.Host != nil && rec.Host.CPUModel != "" {
			fmt.Fprintf(out, "CPU:       %s (%d cores)\n", rec.Host.CPUModel, rec.Host.LogicalCores)
		}
		fmt.Fprintln(out)
	}

	return report.Write(out, rec.Document(), format, report.ColorNever)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
