// Package bankroll owns the session bankroll and its append-only ledger.
package bankroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"AviatorAdvisor/internal/model"
)

var (
	ErrLedgerMismatch = errors.New("ledger does not reconcile")
	ErrNoSession      = errors.New("no active session")
	ErrSessionActive  = errors.New("session already active")
	ErrInvalidParams  = errors.New("invalid session parameters")
)

// Ledger is an append-only transaction log. Entries are never edited or removed.
type Ledger struct {
	txs []model.Transaction
}

// Append adds a transaction at the end of the log.
func (l *Ledger) Append(tx model.Transaction) {
	l.txs = append(l.txs, tx)
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.txs)
}

// Transactions returns a copy of the log.
func (l *Ledger) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// Replay sums every entry, Start included, from zero.
func (l *Ledger) Replay() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.txs {
		sum = sum.Add(tx.Signed())
	}
	return sum
}

// Verify checks that the log starts with a Start entry for initial, that every
// ResultingBalance matches the running sum and that the final sum is current.
func (l *Ledger) Verify(initial, current decimal.Decimal) error {
	if len(l.txs) == 0 {
		if current.Equal(initial) {
			return nil
		}
		return fmt.Errorf("%w: empty ledger, balance %s vs initial %s", ErrLedgerMismatch, current, initial)
	}
	first := l.txs[0]
	if first.Type != model.TxStart || !first.Amount.Equal(initial) {
		return fmt.Errorf("%w: first entry %s %s, want START %s", ErrLedgerMismatch, first.Type, first.Amount, initial)
	}

	running := decimal.Zero
	for i, tx := range l.txs {
		if i > 0 && tx.Type == model.TxStart {
			return fmt.Errorf("%w: extra START at %d", ErrLedgerMismatch, i)
		}
		running = running.Add(tx.Signed())
		if !running.Equal(tx.ResultingBalance) {
			return fmt.Errorf("%w: entry %d (%s) balance %s, replay %s", ErrLedgerMismatch, i, tx.ID, tx.ResultingBalance, running)
		}
	}
	if !running.Equal(current) {
		return fmt.Errorf("%w: replay %s, balance %s", ErrLedgerMismatch, running, current)
	}
	return nil
}
