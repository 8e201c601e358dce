package model

import "github.com/shopspring/decimal"

// ProfileMode is the configured risk profile.
type ProfileMode string

const (
	ProfileConservador ProfileMode = "Conservador"
	ProfileModerado    ProfileMode = "Moderado"
	ProfileElite       ProfileMode = "Elite"
)

// Valid reports whether p is one of the known profiles.
func (p ProfileMode) Valid() bool {
	switch p {
	case ProfileConservador, ProfileModerado, ProfileElite:
		return true
	}
	return false
}

// BankrollState is the single mutable session aggregate. Only bankroll.Manager
// mutates it; every other component works on a Clone.
type BankrollState struct {
	InitialBankroll decimal.Decimal `json:"initial_bankroll"`
	CurrentBankroll decimal.Decimal `json:"current_bankroll"`
	// OriginBankroll is the InitialBankroll of the first session in a chain of
	// "continue with remaining funds" sessions.
	OriginBankroll decimal.Decimal `json:"origin_bankroll"`

	StopWinPct  float64         `json:"stop_win_pct"`
	StopLossPct float64         `json:"stop_loss_pct"`
	BaseBet     decimal.Decimal `json:"base_bet"`

	ConsecutiveLosses         int `json:"consecutive_losses"`
	PinkHuntConsecutiveLosses int `json:"pink_hunt_consecutive_losses"`
	PinkHuntMaxLosses         int `json:"pink_hunt_max_losses"`

	// TrailingLoss is the sum of losses in the current losing run.
	TrailingLoss decimal.Decimal `json:"trailing_loss"`

	TacticWeights map[string]float64 `json:"tactic_weights"`
	ProfileMode   ProfileMode        `json:"profile_mode"`
	IsActive      bool               `json:"is_active"`
}

// Clone returns a deep copy safe to hand to readers.
func (s BankrollState) Clone() BankrollState {
	out := s
	if s.TacticWeights != nil {
		out.TacticWeights = make(map[string]float64, len(s.TacticWeights))
		for k, v := range s.TacticWeights {
			out.TacticWeights[k] = v
		}
	}
	return out
}

// StopWinLevel is the balance at or above which the session is won.
func (s BankrollState) StopWinLevel() decimal.Decimal {
	pct := decimal.NewFromFloat(s.StopWinPct).Div(decimal.NewFromInt(100))
	return s.InitialBankroll.Mul(decimal.NewFromInt(1).Add(pct))
}

// StopLossLevel is the balance at or below which the session is lost.
func (s BankrollState) StopLossLevel() decimal.Decimal {
	pct := decimal.NewFromFloat(s.StopLossPct).Div(decimal.NewFromInt(100))
	return s.InitialBankroll.Mul(decimal.NewFromInt(1).Sub(pct))
}

// Profit is the running session result against InitialBankroll.
func (s BankrollState) Profit() decimal.Decimal {
	return s.CurrentBankroll.Sub(s.InitialBankroll)
}
