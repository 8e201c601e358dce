package session

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/planner"
)

// Property: over any round sequence the ledger replays to the balance, every
// issued stake is zero or inside [MinBet, MaxBet], and a terminal status never
// leaves on its own.
func TestProperty_LifecycleInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("ledger, stake bounds and sticky terminal", prop.ForAll(
		func(mults []float64, elite bool) bool {
			profile := model.ProfileModerado
			if elite {
				profile = model.ProfileElite
			}
			cfg := DefaultConfig()
			cfg.MaxBlueStreakStop = 4
			e := New(cfg)
			p := startParams(profile)
			p.PinkHuntMaxLosses = 3
			if err := e.Start(p, t0); err != nil {
				return false
			}

			sig := hot()
			terminal := false
			for i, mult := range mults {
				step, err := e.OnRound(model.Round{Multiplier: mult, Timestamp: t0.Add(time.Duration(i+1) * time.Minute)}, sig)
				if err != nil {
					return false
				}
				if terminal && !step.Status.Terminal() {
					return false
				}
				terminal = step.Status.Terminal()

				for _, l := range step.Plan.Legs() {
					if l.Amount != 0 && (l.Amount < planner.MinBet || l.Amount > planner.MaxBet) {
						return false
					}
				}
				if !step.Status.Wagering() && !step.Plan.Empty() {
					return false
				}

				s := e.Snapshot()
				sum := decimal.Zero
				for _, tx := range e.Transactions() {
					if tx.Type != model.TxStart {
						sum = sum.Add(tx.Signed())
					}
				}
				if !s.CurrentBankroll.Equal(s.InitialBankroll.Add(sum)) {
					return false
				}
			}
			return e.Verify() == nil
		},
		gen.SliceOf(gen.Float64Range(1.0, 30.0)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
