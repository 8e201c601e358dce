// Package reconcile judges an issued plan against the round that followed it.
package reconcile

import (
	"github.com/shopspring/decimal"

	"AviatorAdvisor/internal/model"
)

var one = decimal.NewFromInt(1)

// Settle resolves every staked leg of prev against round. A leg wins iff the
// round multiplier reaches its target; a win pays amount*(target-1), a loss
// costs the amount. Money is computed in cents.
func Settle(prev model.WagerPlan, round model.Round) model.Settlement {
	s := model.Settlement{Round: round, Plan: prev, Profit: decimal.Zero}

	for i, leg := range prev.Legs() {
		if !leg.Active() {
			continue
		}
		s.Settled = true

		amount := decimal.NewFromFloat(leg.Amount).Round(2)
		won := round.Multiplier >= leg.TargetMultiplier
		var profit decimal.Decimal
		if won {
			profit = amount.Mul(decimal.NewFromFloat(leg.TargetMultiplier).Sub(one)).Round(2)
		} else {
			profit = amount.Neg()
		}
		s.Legs = append(s.Legs, model.LegResult{Leg: leg, Won: won, Profit: profit})
		s.Profit = s.Profit.Add(profit)

		if i == 1 && leg.TargetMultiplier >= model.PinkThreshold {
			s.Hunt = true
			s.HuntWon = won
		}
	}

	s.Won = s.Settled && !s.Profit.IsNegative()
	return s
}
