package bankroll

import (
	"github.com/shopspring/decimal"

	"AviatorAdvisor/internal/model"
)

// Advance returns the state that results from applying a settlement.
// The pink-hunt counter follows the hunt leg itself: it grows when that leg
// loses and resets on a hunt win or on any round without a hunt leg.
// It is the only place the bankroll arithmetic lives: Manager.Apply uses it
// for the real session and the planner uses it for previews.
func Advance(state model.BankrollState, s model.Settlement) model.BankrollState {
	next := state.Clone()
	if !s.Settled {
		return next
	}

	next.CurrentBankroll = state.CurrentBankroll.Add(s.Profit)
	if s.Won {
		next.ConsecutiveLosses = 0
		next.TrailingLoss = decimal.Zero
	} else {
		next.ConsecutiveLosses++
		next.TrailingLoss = state.TrailingLoss.Add(s.Profit.Neg())
	}

	if s.Hunt && !s.HuntWon {
		next.PinkHuntConsecutiveLosses++
	} else {
		next.PinkHuntConsecutiveLosses = 0
	}
	return next
}
