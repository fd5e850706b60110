package domain

import "time"

// HistoryRecord captures one dispatched utterance for the persistent history.
type HistoryRecord struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Input     string         `json:"input"`
	Trigger   string         `json:"trigger"`
	Argument  string         `json:"argument"`
	Status    DispatchStatus `json:"status"`
	Message   string         `json:"message"`
	Origin    Origin         `json:"origin"`
}

// NewHistoryRecord flattens a dispatch result.
func NewHistoryRecord(res DispatchResult) HistoryRecord {
	rec := HistoryRecord{
		ID:        res.ID,
		Timestamp: res.Timestamp,
		Input:     res.Normalized,
		Argument:  res.Argument,
		Status:    res.Status,
		Message:   res.Message(),
		Origin:    res.Origin,
	}
	if res.MatchedTrigger != nil {
		rec.Trigger = res.MatchedTrigger.Text
	}
	return rec
}

// Succeeded reports whether the dispatch ran an action without faults.
func (r HistoryRecord) Succeeded() bool {
	return r.Status == DispatchSuccess
}
