package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/phoenix-go/internal/app"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// NewRecentCommand prints the last recognised commands, oldest first.
//
// The in-memory recent log only lives as long as a serve or listen process, so a
// standalone invocation reads the tail of the persistent history instead.
func NewRecentCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := container.Engine.RecentCommands()
			if len(entries) == 0 {
				var err error
				if entries, err = recentFromHistory(container.HistoryStore, limit); err != nil {
					return err
				}
			}
			printRecent(cmd.OutOrStdout(), entries, limit)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.RecentCommandCapacity, "Max entries to show")
	return cmd
}

func recentFromHistory(store ports.HistoryRepository, limit int) ([]domain.RecentCommand, error) {
	if store == nil {
		return nil, nil
	}
	records, err := store.Records(limit, "")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve history records: %w", err)
	}
	entries := make([]domain.RecentCommand, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		entries = append(entries, domain.RecentCommand{Command: records[i].Input, Timestamp: records[i].Timestamp})
	}
	return entries, nil
}

func printRecent(out io.Writer, entries []domain.RecentCommand, limit int) {
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoRecentCommands)
		return
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%s  %s\n", entry.Timestamp.Local().Format(TimestampFormat), entry.Command)
	}
}
