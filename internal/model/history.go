package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContextSnapshot captures the situation a plan was issued in.
type ContextSnapshot struct {
	Status        Status          `json:"status"`
	Profile       ProfileMode     `json:"profile"`
	BankrollAfter decimal.Decimal `json:"bankroll_after"`
	MarketState   MarketState     `json:"market_state,omitempty"`
	PauseRisk     RiskLevel       `json:"pause_risk,omitempty"`
}

// HistoryRecord is written once per settled round for audit and reporting.
type HistoryRecord struct {
	Plan            WagerPlan       `json:"plan"`
	ResultRound     Round           `json:"result_round"`
	Profit          decimal.Decimal `json:"profit"`
	Reasoning       string          `json:"reasoning"`
	ConfidenceScore float64         `json:"confidence_score"`
	Context         ContextSnapshot `json:"context"`
}

// SessionOutcome is the terminal result of a session.
type SessionOutcome string

const (
	OutcomeWin  SessionOutcome = "win"
	OutcomeLoss SessionOutcome = "loss"
)

// SessionEndEvent is raised exactly once per terminal transition.
type SessionEndEvent struct {
	Type         SessionOutcome  `json:"type"`
	ProfitOrLoss decimal.Decimal `json:"profit_or_loss"`
	NextBestTime *string         `json:"next_best_time,omitempty"`
	At           time.Time       `json:"at"`
}

// ProfileChangeEvent is raised when smart mode applies a new profile.
type ProfileChangeEvent struct {
	From   ProfileMode `json:"from"`
	To     ProfileMode `json:"to"`
	Reason string      `json:"reason"`
}

// Events groups the notifications produced by one engine step.
type Events struct {
	SessionEnd    *SessionEndEvent    `json:"session_end,omitempty"`
	ProfileChange *ProfileChangeEvent `json:"profile_change,omitempty"`
}

// Empty reports whether no event was raised.
func (e Events) Empty() bool {
	return e.SessionEnd == nil && e.ProfileChange == nil
}
