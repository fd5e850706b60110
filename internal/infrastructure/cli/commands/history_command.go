package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/phoenix-go/internal/app"
	"github.com/doeshing/phoenix-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the persistent dispatch history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
		newHistoryRetainCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container.HistoryStore, limit, "")
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var query string
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search history for a keyword",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf(ErrQueryRequired)
			}
			return listHistoryEntries(cmd.OutOrStdout(), container.HistoryStore, searchLimit, query)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	cmd.Flags().IntVar(&searchLimit, "limit", DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every history entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !helpers.PromptForConfirmation(cmd.OutOrStdout(), cmd.InOrStdin(), "Delete all history?") {
				fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
				return nil
			}
			return clearHistory(container.HistoryStore)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.OutOrStdout(), container.HistoryStore, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show match rate, success rate and top commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container.HistoryStore)
		},
	}
}

// newHistoryRetainCommand creates the 'history retain' subcommand
func newHistoryRetainCommand(container *app.Container) *cobra.Command {
	var retainDays int

	cmd := &cobra.Command{
		Use:   "retain",
		Short: "Prune history older than N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				retainDays = container.Config.GetHistoryRetentionDays()
			}
			if retainDays <= 0 {
				return fmt.Errorf(ErrInvalidRetainDays)
			}
			return pruneHistory(cmd.OutOrStdout(), container.HistoryStore, retainDays, time.Now())
		},
	}

	cmd.Flags().IntVar(&retainDays, "days", DefaultHistoryRetainDays, "Days to retain history (defaults to history.retention_days)")
	return cmd
}

// listHistoryEntries prints entries newest first, optionally filtered by query
func listHistoryEntries(out io.Writer, store ports.HistoryRepository, limit int, query string) error {
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(limit, query)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 && query == "" {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %-5s | %-15s | %s | %s\n",
			rec.Timestamp.Local().Format(TimestampFormat),
			rec.Origin,
			rec.Status,
			rec.Input,
			rec.Message)
	}

	return nil
}

// clearHistory clears every stored entry
func clearHistory(store ports.HistoryRepository) error {
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}

// exportHistory exports history to a JSONL file
func exportHistory(out io.Writer, store ports.HistoryRepository, path string) error {
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if err := store.ExportJSON(path); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	fmt.Fprintf(out, "Exported history to %s\n", path)
	return nil
}

// showHistoryStats displays match rate, success rate and top commands
func showHistoryStats(out io.Writer, store ports.HistoryRepository) error {
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(MaxHistoryAnalysisRecords, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	displayHistoryStatistics(out, helpers.AnalyzeHistory(records))
	return nil
}

// displayHistoryStatistics displays formatted history statistics
func displayHistoryStatistics(out io.Writer, stats helpers.HistoryStatistics) {
	fmt.Fprintf(out, "Entries analyzed: %d\nMatched: %d (%.1f%%)\nSuccess rate: %.1f%%\n",
		stats.Total,
		stats.Matched,
		helpers.CalculateSuccessRate(stats.Matched, stats.Total),
		helpers.CalculateSuccessRate(stats.Successful, stats.Matched))

	fmt.Fprintln(out, "Top commands:")
	for _, stat := range helpers.CalculateTopCommands(stats.Triggers, 5) {
		fmt.Fprintf(out, "  %s (%d)\n", stat.Command, stat.Count)
	}

	fmt.Fprintln(out, "Outcomes:")
	for _, status := range helpers.SortedKeys(stats.Statuses) {
		fmt.Fprintf(out, "  %s: %d\n", status, stats.Statuses[status])
	}

	fmt.Fprintln(out, "Origins:")
	for _, origin := range helpers.SortedKeys(stats.Origins) {
		fmt.Fprintf(out, "  %s: %d\n", origin, stats.Origins[origin])
	}
}

// pruneHistory drops entries older than days
func pruneHistory(out io.Writer, store ports.HistoryRepository, days int, now time.Time) error {
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	removed, err := store.Prune(now.AddDate(0, 0, -days))
	if err != nil {
		return fmt.Errorf("failed to prune old history: %w", err)
	}

	fmt.Fprintf(out, "Removed %d entries; retained last %d days of history.\n", removed, days)
	return nil
}
