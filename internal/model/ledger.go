package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TxStart      TransactionType = "START"
	TxWin        TransactionType = "WIN"
	TxLoss       TransactionType = "LOSS"
	TxCorrection TransactionType = "CORRECTION"
)

// Transaction is one immutable ledger entry. Amount is non-negative for
// Start, Win and Loss; a Correction carries its own sign.
type Transaction struct {
	ID               string          `json:"id"`
	Type             TransactionType `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Timestamp        time.Time       `json:"timestamp"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	Note             string          `json:"note,omitempty"`
}

// Signed returns the contribution of the entry to the balance.
func (t Transaction) Signed() decimal.Decimal {
	switch t.Type {
	case TxLoss:
		return t.Amount.Neg()
	default:
		return t.Amount
	}
}

// LegResult is the outcome of one settled leg.
type LegResult struct {
	Leg    WagerLeg        `json:"leg"`
	Won    bool            `json:"won"`
	Profit decimal.Decimal `json:"profit"`
}

// Settlement is the reconciliation of the previous plan against a new round.
type Settlement struct {
	Round   Round           `json:"round"`
	Plan    WagerPlan       `json:"plan"`
	Legs    []LegResult     `json:"legs"`
	Profit  decimal.Decimal `json:"profit"`
	Won     bool            `json:"won"`
	Hunt    bool            `json:"hunt"` // the profit leg targeted a pink multiplier
	HuntWon bool            `json:"hunt_won"`
	Settled bool            `json:"settled"`
}
