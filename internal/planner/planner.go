// Package planner turns a confidence report and a bankroll snapshot into a
// two-leg wager plan.
package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"AviatorAdvisor/internal/bankroll"
	"AviatorAdvisor/internal/calculator"
	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/reconcile"
)

// Stake limits and thresholds.
const (
	MinBet                = 1.00
	MaxBet                = 700.00
	BettingThreshold      = 65.0
	DefaultRecoveryTarget = 1.80
	MinRecoveryTarget     = 1.80
	MaxRecoveryTarget     = 1.90
	RecoveryMargin        = 0.10 // fraction of the base bet added on top of a deficit
	RecoveryBankrollCap   = 0.25 // loss-recovery stake cap as a fraction of the bankroll
	CautiousStakeFactor   = 0.25
	SpikeStake            = 0.25 // fraction of the base bet
	DualProfitStake       = 0.50
)

// BaselineMode selects what a deficit is measured against.
type BaselineMode string

const (
	// BaselineSession compares against the current session's initial bankroll.
	BaselineSession BaselineMode = "session"
	// BaselineOrigin compares against the first bankroll of a continue-chain.
	BaselineOrigin BaselineMode = "origin"
)

// Params tunes the generator.
type Params struct {
	RecoveryTarget    float64
	DualStrategy      bool
	Baseline          BaselineMode
	CautionMultiplier float64
	CautionRounds     int
	SpikeTarget       float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		RecoveryTarget:    DefaultRecoveryTarget,
		DualStrategy:      false,
		Baseline:          BaselineSession,
		CautionMultiplier: 50,
		CautionRounds:     1,
		SpikeTarget:       50,
	}
}

// Context is the read-only market context the plan is built in.
type Context struct {
	History []model.Round
	Signals model.Signals
}

// Generator builds plans. It holds no mutable state.
type Generator struct {
	Params Params
}

// New creates a generator.
func New(p Params) *Generator {
	return &Generator{Params: p}
}

// Plan computes the next wager plan. The caller is responsible for only
// invoking it when the report clears BettingThreshold and the session is
// active and unpaused.
func (g *Generator) Plan(report model.ConfidenceReport, state model.BankrollState, dominant *model.TacticScore, ctx Context) model.WagerPlan {
	base := state.BaseBet.InexactFloat64()
	current := state.CurrentBankroll.InexactFloat64()
	baseline := g.baseline(state)
	prof := ProfileFor(state.ProfileMode)

	var plan model.WagerPlan
	switch {
	case current < baseline:
		target := safeTarget(g.Params.RecoveryTarget)
		deficit := baseline - current
		plan.Safety = leg(solveStake(deficit+base*RecoveryMargin, target), target)
		plan.Profit = disabled()
		if g.Params.DualStrategy {
			plan.Profit = leg(base*DualProfitStake, prof.ProfitMin)
		}
		plan.Branch = model.BranchDeficit
		plan.Reason = fmt.Sprintf("recovering deficit of %.2f at %.2fx", deficit, target)

	case state.PinkHuntMaxLosses > 0 && state.PinkHuntConsecutiveLosses >= state.PinkHuntMaxLosses:
		plan.Safety = leg(base, safeTarget(prof.SafetyTarget))
		plan.Profit = disabled()
		plan.Branch = model.BranchHuntCeiling
		plan.Reason = fmt.Sprintf("pink hunt lost %d times, safety leg only", state.PinkHuntConsecutiveLosses)

	case state.ConsecutiveLosses > 0:
		target := safeTarget(prof.SafetyTarget)
		trailing := state.TrailingLoss.InexactFloat64()
		stake := solveStake(trailing+base*RecoveryMargin, target)
		if limit := current * RecoveryBankrollCap; stake > limit {
			stake = limit
		}
		plan.Safety = leg(stake, target)
		plan.Profit = disabled()
		plan.Branch = model.BranchLossRecovery
		plan.Reason = fmt.Sprintf("covering %d recent losses (%.2f) at %.2fx", state.ConsecutiveLosses, trailing, target)

	default:
		plan = g.normal(state, prof, dominant, ctx)
	}

	if g.cautious(ctx.History) {
		plan.Safety = leg(plan.Safety.Amount*CautiousStakeFactor, plan.Safety.TargetMultiplier)
		plan.Profit = disabled()
		plan.Cautious = true
		plan.Reason += ", cautious after a spike"
	}
	if report.Dominant != nil {
		plan.Reason += fmt.Sprintf(" [%s %.0f]", report.Dominant.Name, report.FinalScore)
	}
	return plan
}

func (g *Generator) normal(state model.BankrollState, prof Profile, dominant *model.TacticScore, ctx Context) model.WagerPlan {
	base := state.BaseBet.InexactFloat64()
	plan := model.WagerPlan{
		Safety: leg(base, safeTarget(prof.SafetyTarget)),
		Branch: model.BranchNormal,
	}

	if state.ProfileMode == model.ProfileElite && ctx.Signals.Patterns.Any() && g.Params.SpikeTarget > prof.ProfitMax {
		plan.Profit = leg(base*SpikeStake, g.Params.SpikeTarget)
		plan.Reason = fmt.Sprintf("pattern alert, spike leg at %.0fx", g.Params.SpikeTarget)
		return plan
	}

	var suggested float64
	if dominant != nil {
		suggested = dominant.SuggestedTarget
	}
	target := prof.profitTarget(suggested)
	plan.Profit = leg(base*prof.ProfitStake, target)
	plan.Reason = fmt.Sprintf("%s profile, profit leg at %.2fx", state.ProfileMode, target)
	return plan
}

// Previews plans the round after next for both outcomes of plan, using the
// same settlement, bankroll and branch code as the real path.
func (g *Generator) Previews(report model.ConfidenceReport, state model.BankrollState, plan model.WagerPlan, ctx Context) (ifWin, ifLose model.WagerPlan) {
	at := time.Time{}
	if n := len(ctx.History); n > 0 {
		at = ctx.History[n-1].Timestamp.Add(time.Minute)
	}
	top := 1.0
	for _, l := range plan.Legs() {
		if l.Active() && l.TargetMultiplier > top {
			top = l.TargetMultiplier
		}
	}

	project := func(mult float64) model.WagerPlan {
		r := model.Round{Multiplier: mult, Timestamp: at}
		next := bankroll.Advance(state, reconcile.Settle(plan, r))
		hist := make([]model.Round, len(ctx.History), len(ctx.History)+1)
		copy(hist, ctx.History)
		return g.Plan(report, next, report.Dominant, Context{History: append(hist, r), Signals: ctx.Signals})
	}
	return project(top), project(1.0)
}

func (g *Generator) baseline(state model.BankrollState) float64 {
	if g.Params.Baseline == BaselineOrigin && state.OriginBankroll.IsPositive() {
		return state.OriginBankroll.InexactFloat64()
	}
	return state.InitialBankroll.InexactFloat64()
}

func (g *Generator) cautious(history []model.Round) bool {
	return calculator.RecentHigh(history, g.Params.CautionRounds, g.Params.CautionMultiplier)
}

// solveStake returns the stake whose win at target returns need.
func solveStake(need, target float64) float64 {
	target = safeTarget(target)
	if need <= 0 {
		return 0
	}
	return need / (target - 1)
}

// safeTarget replaces unusable targets with DefaultRecoveryTarget.
func safeTarget(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= 1 {
		return DefaultRecoveryTarget
	}
	return t
}

// Clamp rounds to cents and forces a non-zero stake into [MinBet, MaxBet].
// A non-finite amount is dropped to 0 so the leg is not wagered.
func Clamp(amount float64) float64 {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		log.Warn().Float64("amount", amount).Msg("non-finite stake dropped")
		return 0
	case amount <= 0:
		return 0
	}
	amount = math.Round(amount*100) / 100
	if amount < MinBet {
		return MinBet
	}
	if amount > MaxBet {
		return MaxBet
	}
	return amount
}

func leg(amount, target float64) model.WagerLeg {
	return model.WagerLeg{Amount: Clamp(amount), TargetMultiplier: safeTarget(target)}
}

func disabled() model.WagerLeg {
	return model.WagerLeg{Amount: 0, TargetMultiplier: 1}
}
