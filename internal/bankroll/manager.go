package bankroll

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"AviatorAdvisor/internal/model"
)

// StartParams configures a new session.
type StartParams struct {
	Bankroll          decimal.Decimal
	BaseBet           decimal.Decimal
	StopWinPct        float64
	StopLossPct       float64
	PinkHuntMaxLosses int
	TacticWeights     map[string]float64
	Profile           model.ProfileMode
	// Origin is the first bankroll of a continue-chain; zero means Bankroll.
	Origin decimal.Decimal
}

// Validate rejects parameters no session can run with.
func (p StartParams) Validate() error {
	switch {
	case !p.Bankroll.IsPositive():
		return fmt.Errorf("%w: bankroll must be positive", ErrInvalidParams)
	case p.BaseBet.IsNegative():
		return fmt.Errorf("%w: base bet must not be negative", ErrInvalidParams)
	case p.StopWinPct <= 0:
		return fmt.Errorf("%w: stop win must be positive", ErrInvalidParams)
	case p.StopLossPct <= 0 || p.StopLossPct > 100:
		return fmt.Errorf("%w: stop loss must be in (0, 100]", ErrInvalidParams)
	case p.PinkHuntMaxLosses < 0:
		return fmt.Errorf("%w: pink hunt max losses must not be negative", ErrInvalidParams)
	}
	return nil
}

// Manager is the single writer of the bankroll state. Apply is the only
// operation that changes the balance after Start.
type Manager struct {
	mu     sync.Mutex
	state  model.BankrollState
	ledger *Ledger
}

// NewManager returns a manager with no session.
func NewManager() *Manager {
	return &Manager{ledger: &Ledger{}}
}

// Start opens a session and writes the Start entry.
func (m *Manager) Start(p StartParams, at time.Time) (model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return model.Transaction{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.IsActive {
		return model.Transaction{}, ErrSessionActive
	}

	bankroll := p.Bankroll.Round(2)
	origin := p.Origin.Round(2)
	if !origin.IsPositive() {
		origin = bankroll
	}
	profile := p.Profile
	if !profile.Valid() {
		profile = model.ProfileModerado
	}

	m.state = model.BankrollState{
		InitialBankroll:   bankroll,
		CurrentBankroll:   bankroll,
		OriginBankroll:    origin,
		StopWinPct:        p.StopWinPct,
		StopLossPct:       p.StopLossPct,
		BaseBet:           p.BaseBet.Round(2),
		PinkHuntMaxLosses: p.PinkHuntMaxLosses,
		TrailingLoss:      decimal.Zero,
		ProfileMode:       profile,
		TacticWeights:     copyWeights(p.TacticWeights),
		IsActive:          true,
	}

	tx := model.Transaction{
		ID:               uuid.NewString(),
		Type:             model.TxStart,
		Amount:           bankroll,
		Timestamp:        at,
		ResultingBalance: bankroll,
		Note:             "session start",
	}
	m.ledger = &Ledger{}
	m.ledger.Append(tx)
	return tx, nil
}

// Apply books one settled round: exactly one net transaction, plus the streak
// counters from Advance. An unsettled settlement books nothing.
func (m *Manager) Apply(s model.Settlement) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsActive {
		return nil, ErrNoSession
	}
	if !s.Settled {
		return nil, nil
	}

	next := Advance(m.state, s)
	tx := model.Transaction{
		ID:               uuid.NewString(),
		Type:             model.TxLoss,
		Amount:           s.Profit.Abs(),
		Timestamp:        s.Round.Timestamp,
		ResultingBalance: next.CurrentBankroll,
		Note:             fmt.Sprintf("round %.2fx", s.Round.Multiplier),
	}
	if s.Won {
		tx.Type = model.TxWin
	}
	m.ledger.Append(tx)
	m.state = next
	return &tx, nil
}

// Correct books a manual balance correction. amount carries its sign.
func (m *Manager) Correct(amount decimal.Decimal, note string, at time.Time) (model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsActive {
		return model.Transaction{}, ErrNoSession
	}
	amount = amount.Round(2)
	if amount.IsZero() {
		return model.Transaction{}, fmt.Errorf("%w: zero correction", ErrInvalidParams)
	}
	m.state.CurrentBankroll = m.state.CurrentBankroll.Add(amount)
	tx := model.Transaction{
		ID:               uuid.NewString(),
		Type:             model.TxCorrection,
		Amount:           amount,
		Timestamp:        at,
		ResultingBalance: m.state.CurrentBankroll,
		Note:             note,
	}
	m.ledger.Append(tx)
	return tx, nil
}

// SetProfile switches the active risk profile.
func (m *Manager) SetProfile(p model.ProfileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Valid() {
		m.state.ProfileMode = p
	}
}

// Deactivate ends the session without touching the ledger.
func (m *Manager) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsActive = false
}

// Clear drops the session and its ledger and zeroes every counter.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = model.BankrollState{}
	m.ledger = &Ledger{}
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() model.BankrollState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Transactions returns a copy of the ledger.
func (m *Manager) Transactions() []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Transactions()
}

// Verify replays the ledger against the current balance.
func (m *Manager) Verify() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Verify(m.state.InitialBankroll, m.state.CurrentBankroll)
}

// Checkpoint captures the state and ledger for persistence.
func (m *Manager) Checkpoint() *Checkpoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &Checkpoint{State: m.state.Clone(), Transactions: m.ledger.Transactions()}
}

// Restore replaces the manager contents with a checkpoint after verifying it.
func (m *Manager) Restore(cp *Checkpoint) error {
	l := &Ledger{}
	for _, tx := range cp.Transactions {
		l.Append(tx)
	}
	if l.Len() > 0 || cp.State.IsActive {
		if err := l.Verify(cp.State.InitialBankroll, cp.State.CurrentBankroll); err != nil {
			return fmt.Errorf("restore checkpoint: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = cp.State.Clone()
	m.ledger = l
	return nil
}

func copyWeights(w map[string]float64) map[string]float64 {
	if w == nil {
		return nil
	}
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
