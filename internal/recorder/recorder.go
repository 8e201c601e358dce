package recorder

import "AviatorAdvisor/internal/model"

// Summary aggregates what has been recorded so far.
type Summary struct {
	Rounds       int
	Wins         int
	Losses       int
	NetProfit    float64
	Transactions int
	SessionsWon  int
	SessionsLost int
}

// Recorder persists the settled-round history and session events for analysis.
type Recorder interface {
	RecordHistory(rec *model.HistoryRecord) error
	RecordTransaction(tx *model.Transaction) error
	RecordSessionEnd(evt *model.SessionEndEvent) error
	RecordProfileChange(evt *model.ProfileChangeEvent) error
	Summary() (Summary, error)
	Close() error
}
