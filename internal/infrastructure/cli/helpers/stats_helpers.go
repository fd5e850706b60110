package helpers

import (
	"sort"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// CommandStatistic represents usage statistics for a trigger
type CommandStatistic struct {
	Command string
	Count   int
}

// HistoryStatistics summarises a slice of history records
type HistoryStatistics struct {
	Total      int
	Matched    int
	Successful int
	Triggers   map[string]int
	Statuses   map[domain.DispatchStatus]int
	Origins    map[domain.Origin]int
}

// AnalyzeHistory counts outcomes, triggers and origins
func AnalyzeHistory(records []domain.HistoryRecord) HistoryStatistics {
	stats := HistoryStatistics{
		Total:    len(records),
		Triggers: make(map[string]int),
		Statuses: make(map[domain.DispatchStatus]int),
		Origins:  make(map[domain.Origin]int),
	}
	for _, rec := range records {
		stats.Statuses[rec.Status]++
		stats.Origins[rec.Origin]++
		if rec.Status == domain.DispatchUnmatched {
			continue
		}
		stats.Matched++
		if rec.Succeeded() {
			stats.Successful++
		}
		if rec.Trigger != "" {
			stats.Triggers[rec.Trigger]++
		}
	}
	return stats
}

// CalculateTopCommands returns the top N most frequently used triggers
// If limit is 0 or negative, returns all of them
func CalculateTopCommands(commandFrequency map[string]int, limit int) []CommandStatistic {
	stats := make([]CommandStatistic, 0, len(commandFrequency))
	for cmd, count := range commandFrequency {
		stats = append(stats, CommandStatistic{Command: cmd, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Command < stats[j].Command
		}
		return stats[i].Count > stats[j].Count
	})

	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// CalculateSuccessRate calculates the success rate as a percentage
func CalculateSuccessRate(successfulCount int, executedCount int) float64 {
	if executedCount == 0 {
		return 0.0
	}
	return float64(successfulCount) / float64(executedCount) * 100.0
}

// SortedKeys returns map keys in ascending order so distributions print stably
func SortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
