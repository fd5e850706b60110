package commands

import "github.com/doeshing/phoenix-go/internal/domain"

// Defaults shared by several commands
const (
	DefaultHistoryLimit       = domain.DefaultHistoryLimit
	DefaultHistorySearchLimit = domain.DefaultHistorySearchLimit
	DefaultHistoryRetainDays  = domain.DefaultHistoryRetainDays
	MaxHistoryAnalysisRecords = domain.MaxHistoryAnalysisRecords
	TimestampFormat           = "2006-01-02 15:04:05"
)

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrQueryRequired            = "--query required"
	ErrInvalidRetainDays        = "--days must be > 0"
)

// Success messages
const (
	MsgNoDifferencesFromDefault = "No differences from default settings."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNoRecentCommands         = "No recent commands."
	MsgCancelled                = "Cancelled."
)
