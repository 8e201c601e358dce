// Package session runs the wagering lifecycle: one OnRound call per observed
// round settles the previous plan, checks stop conditions and pauses, scores
// the market and issues the next plan.
package session

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"AviatorAdvisor/internal/bankroll"
	"AviatorAdvisor/internal/calculator"
	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/planner"
	"AviatorAdvisor/internal/reconcile"
	"AviatorAdvisor/internal/strategy"
)

var (
	ErrInvalidRound = errors.New("invalid round")
	ErrTerminal     = errors.New("session ended, reset or continue first")
	ErrNotTerminal  = errors.New("session has not ended")
)

// ColorWindow is how many recent rounds View tallies by color.
const ColorWindow = 20

// Step is everything one round produced.
type Step struct {
	Status      model.Status
	Reason      string
	Plan        model.WagerPlan
	IfWin       model.WagerPlan
	IfLose      model.WagerPlan
	Report      *model.ConfidenceReport
	Settlement  *model.Settlement
	Transaction *model.Transaction
	History     *model.HistoryRecord
	Events      model.Events
}

// View is a read-only copy of the engine's exposed state.
type View struct {
	Status         model.Status
	Reason         string
	Plan           model.WagerPlan
	IfWin          model.WagerPlan
	IfLose         model.WagerPlan
	Report         *model.ConfidenceReport
	LastSettlement *model.Settlement
	Bankroll       model.BankrollState
	Rounds         int
	Colors         map[model.Color]int // last ColorWindow rounds
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine is the session lifecycle state machine. All methods are safe for
// concurrent use; OnRound runs to completion before any other call observes state.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	logger zerolog.Logger
	bank   *bankroll.Manager
	gen    *planner.Generator
	tuner  *strategy.Tuner

	history []model.Round
	status  model.Status
	reason  string

	plan       model.WagerPlan
	planScore  float64
	ifWin      model.WagerPlan
	ifLose     model.WagerPlan
	report     *model.ConfidenceReport
	settlement *model.Settlement

	strategicLeft int
	ended         bool
	lastParams    bankroll.StartParams
}

// New creates an engine with no session.
func New(cfg Config, opts ...Option) *Engine {
	if cfg.MinHistory < 1 {
		cfg.MinHistory = 1
	}
	if cfg.HistoryLimit < cfg.MinHistory {
		cfg.HistoryLimit = cfg.MinHistory
	}
	e := &Engine{
		cfg:    cfg,
		logger: zerolog.Nop(),
		bank:   bankroll.NewManager(),
		gen:    planner.New(cfg.Planner),
		status: model.StatusInactive,
		reason: "no session",
	}
	for _, opt := range opts {
		opt(e)
	}
	e.plan = model.ZeroPlan(e.reason)
	e.ifWin, e.ifLose = e.plan, e.plan
	return e
}

// Start activates a new session.
func (e *Engine) Start(p bankroll.StartParams, at time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status.Terminal() {
		return ErrTerminal
	}
	if _, err := e.bank.Start(p, at); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	e.lastParams = p
	e.clearRuntime()
	e.ended = false
	snap := e.bank.Snapshot()
	e.tuner = strategy.NewTuner(snap.ProfileMode, e.cfg.SmartConfirmRounds)
	e.setStatus(model.StatusWaitingForData, "session started")
	e.logger.Info().
		Str("bankroll", snap.InitialBankroll.String()).
		Str("base_bet", snap.BaseBet.String()).
		Str("profile", string(snap.ProfileMode)).
		Msg("session started")
	return nil
}

// Stop deactivates the session. The in-flight plan is discarded, not settled.
// An ended session stays ended; only Reset or Continue leave it.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bank.Deactivate()
	e.clearRuntime()
	if e.status.Terminal() {
		return
	}
	e.setStatus(model.StatusInactive, "session stopped")
}

// Reset drops the session, its ledger and all streak and pause state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bank.Clear()
	e.clearRuntime()
	e.ended = false
	e.setStatus(model.StatusInactive, "session reset")
}

// Continue starts a fresh session seeded with the ending balance of a
// terminated one.
func (e *Engine) Continue(at time.Time) error {
	e.mu.Lock()
	if !e.status.Terminal() {
		e.mu.Unlock()
		return ErrNotTerminal
	}
	snap := e.bank.Snapshot()
	p := e.lastParams
	p.Bankroll = snap.CurrentBankroll
	p.Origin = snap.OriginBankroll
	p.Profile = snap.ProfileMode
	if err := p.Validate(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("continue session: %w", err)
	}
	e.bank.Clear()
	e.ended = false
	e.status = model.StatusInactive
	e.mu.Unlock()

	return e.Start(p, at)
}

// Correct books a manual balance correction on the active session.
func (e *Engine) Correct(amount decimal.Decimal, note string, at time.Time) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bank.Correct(amount, note, at)
}

// Seed preloads observed history without running the lifecycle.
func (e *Engine) Seed(rounds []model.Round) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range rounds {
		if err := e.validate(r); err != nil {
			return err
		}
		e.appendRound(r)
	}
	return nil
}

// OnRound processes one newly observed round with the signals computed for it.
func (e *Engine) OnRound(r model.Round, sig model.Signals) (Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validate(r); err != nil {
		return Step{}, err
	}

	snap := e.bank.Snapshot()
	if e.status.Terminal() || !snap.IsActive {
		e.appendRound(r)
		return e.idleStep(), nil
	}

	var step Step
	if !e.plan.Empty() {
		s := reconcile.Settle(e.plan, r)
		tx, err := e.bank.Apply(s)
		if err != nil {
			return Step{}, fmt.Errorf("apply settlement: %w", err)
		}
		snap = e.bank.Snapshot()
		rec := e.historyRecord(s, snap, sig)
		step.Settlement, step.Transaction, step.History = &s, tx, &rec
		e.settlement = &s
		e.armStrategicPause(s, snap)
		e.logger.Debug().
			Float64("multiplier", r.Multiplier).
			Str("profit", s.Profit.String()).
			Str("bankroll", snap.CurrentBankroll.String()).
			Msg("round settled")
	}
	e.plan = model.ZeroPlan("")
	e.appendRound(r)

	if evt, ended := e.checkStops(snap, sig, r.Timestamp); ended {
		step.Events.SessionEnd = evt
		e.fill(&step)
		return step, nil
	}

	if e.cfg.SmartMode && e.tuner != nil {
		if evt := e.tuner.Observe(sig); evt != nil {
			e.bank.SetProfile(evt.To)
			snap = e.bank.Snapshot()
			step.Events.ProfileChange = evt
			e.logger.Info().Str("from", string(evt.From)).Str("to", string(evt.To)).Str("reason", evt.Reason).Msg("profile changed")
		}
	}

	e.evaluate(snap, sig)
	e.fill(&step)
	return step, nil
}

func (e *Engine) evaluate(snap model.BankrollState, sig model.Signals) {
	e.report = nil
	if len(e.history) < e.cfg.MinHistory {
		e.setStatus(model.StatusWaitingForData, fmt.Sprintf("need %d more rounds", e.cfg.MinHistory-len(e.history)))
		return
	}

	report := strategy.Score(e.history, snap, sig)
	e.report = &report

	switch {
	case sig.PauseRisk != nil && sig.PauseRisk.Level == model.LevelCritical:
		e.setStatus(model.StatusPausedCriticalRisk, fmt.Sprintf("pause risk critical (%.0f%%)", sig.PauseRisk.Percentage))
		return
	case e.cfg.MaxBlueStreakStop > 0 && calculator.BlueStreak(e.history) >= e.cfg.MaxBlueStreakStop:
		e.setStatus(model.StatusPausedBlueStreak, fmt.Sprintf("%d blue rounds in a row", calculator.BlueStreak(e.history)))
		return
	case e.strategicLeft > 0:
		e.strategicLeft--
		e.setStatus(model.StatusPausedStrategic, fmt.Sprintf("strategic break, %d rounds left", e.strategicLeft))
		return
	case report.FinalScore < e.cfg.BettingThreshold:
		e.setStatus(model.StatusWaiting, strategy.Summary(report))
		return
	}

	ctx := planner.Context{History: e.history, Signals: sig}
	plan := e.gen.Plan(report, snap, report.Dominant, ctx)
	if plan.Empty() {
		e.setStatus(model.StatusWaiting, "no stake available: "+plan.Reason)
		return
	}
	e.plan, e.planScore = plan, report.FinalScore
	e.ifWin, e.ifLose = e.gen.Previews(report, snap, plan, ctx)
	e.setStatus(statusFor(plan), plan.Reason)
}

func statusFor(p model.WagerPlan) model.Status {
	switch {
	case p.Branch == model.BranchDeficit || p.Branch == model.BranchLossRecovery:
		return model.StatusRecovering
	case p.Profit.Active() && p.Profit.TargetMultiplier >= model.PinkThreshold:
		return model.StatusHunting
	default:
		return model.StatusBetting
	}
}

// stopOutcome reports the terminal status snap's balance has reached, if any.
func stopOutcome(snap model.BankrollState) (model.Status, string, bool) {
	switch {
	case snap.CurrentBankroll.GreaterThanOrEqual(snap.StopWinLevel()):
		return model.StatusSessionWon, fmt.Sprintf("stop win reached at %s", snap.CurrentBankroll.StringFixed(2)), true
	case snap.CurrentBankroll.LessThanOrEqual(snap.StopLossLevel()):
		return model.StatusSessionLost, fmt.Sprintf("stop loss reached at %s", snap.CurrentBankroll.StringFixed(2)), true
	}
	return "", "", false
}

// checkStops moves the session to a terminal state when a stop level is hit.
// ended is true whenever the session is now terminal; evt is only set the
// first time a session ends.
func (e *Engine) checkStops(snap model.BankrollState, sig model.Signals, at time.Time) (evt *model.SessionEndEvent, ended bool) {
	status, reason, ok := stopOutcome(snap)
	if !ok {
		return nil, false
	}
	e.setStatus(status, reason)
	e.bank.Deactivate()
	e.report = nil
	if e.ended {
		return nil, true
	}
	e.ended = true

	evt = &model.SessionEndEvent{Type: model.OutcomeWin, ProfitOrLoss: snap.Profit(), At: at}
	if status == model.StatusSessionLost {
		evt.Type = model.OutcomeLoss
		evt.NextBestTime = BestTime(sig, at)
	}
	e.logger.Info().Str("outcome", string(evt.Type)).Str("result", evt.ProfitOrLoss.String()).Msg("session ended")
	return evt, true
}

func (e *Engine) armStrategicPause(s model.Settlement, snap model.BankrollState) {
	n := e.cfg.StrategicPauseLosses
	if n <= 0 || s.Won || snap.ConsecutiveLosses == 0 {
		return
	}
	if snap.ConsecutiveLosses%n == 0 {
		e.strategicLeft = e.cfg.StrategicPauseRounds
	}
}

func (e *Engine) historyRecord(s model.Settlement, snap model.BankrollState, sig model.Signals) model.HistoryRecord {
	ctx := model.ContextSnapshot{
		Status:        e.status,
		Profile:       snap.ProfileMode,
		BankrollAfter: snap.CurrentBankroll,
	}
	if sig.Market != nil {
		ctx.MarketState = sig.Market.State
	}
	if sig.PauseRisk != nil {
		ctx.PauseRisk = sig.PauseRisk.Level
	}
	return model.HistoryRecord{
		Plan:            e.plan,
		ResultRound:     s.Round,
		Profit:          s.Profit,
		Reasoning:       e.plan.Reason,
		ConfidenceScore: e.planScore,
		Context:         ctx,
	}
}

func (e *Engine) idleStep() Step {
	step := Step{}
	e.fill(&step)
	return step
}

// fill copies the exposed state into step. Non-wagering states carry a zero plan.
func (e *Engine) fill(step *Step) {
	if !e.status.Wagering() {
		e.plan = model.ZeroPlan(e.reason)
		e.ifWin, e.ifLose = e.plan, e.plan
	}
	step.Status = e.status
	step.Reason = e.reason
	step.Plan = e.plan
	step.IfWin = e.ifWin
	step.IfLose = e.ifLose
	if e.report != nil {
		r := *e.report
		step.Report = &r
	}
}

func (e *Engine) validate(r model.Round) error {
	if math.IsNaN(r.Multiplier) || math.IsInf(r.Multiplier, 0) || r.Multiplier < 1 {
		return fmt.Errorf("%w: multiplier %.2f", ErrInvalidRound, r.Multiplier)
	}
	if n := len(e.history); n > 0 && r.Timestamp.Before(e.history[n-1].Timestamp) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidRound, r.Timestamp.Format(time.RFC3339), e.history[n-1].Timestamp.Format(time.RFC3339))
	}
	return nil
}

func (e *Engine) appendRound(r model.Round) {
	e.history = append(e.history, r)
	if over := len(e.history) - e.cfg.HistoryLimit; over > 0 {
		e.history = append([]model.Round(nil), e.history[over:]...)
	}
}

// clearRuntime drops streak, pause and plan state so nothing leaks into the
// next session.
func (e *Engine) clearRuntime() {
	e.plan = model.ZeroPlan("")
	e.ifWin, e.ifLose = e.plan, e.plan
	e.planScore = 0
	e.report = nil
	e.settlement = nil
	e.strategicLeft = 0
}

func (e *Engine) setStatus(s model.Status, reason string) {
	if s != e.status {
		e.logger.Info().Str("from", string(e.status)).Str("to", string(s)).Str("reason", reason).Msg("status changed")
	}
	e.status, e.reason = s, reason
}

// View returns a copy of the exposed state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := View{
		Status:   e.status,
		Reason:   e.reason,
		Plan:     e.plan,
		IfWin:    e.ifWin,
		IfLose:   e.ifLose,
		Bankroll: e.bank.Snapshot(),
		Rounds:   len(e.history),
		Colors:   calculator.ColorCounts(e.history, ColorWindow),
	}
	if e.report != nil {
		r := *e.report
		v.Report = &r
	}
	if e.settlement != nil {
		s := *e.settlement
		v.LastSettlement = &s
	}
	return v
}

// Snapshot returns a copy of the bankroll state.
func (e *Engine) Snapshot() model.BankrollState {
	return e.bank.Snapshot()
}

// Transactions returns a copy of the ledger.
func (e *Engine) Transactions() []model.Transaction {
	return e.bank.Transactions()
}

// Verify replays the ledger against the balance.
func (e *Engine) Verify() error {
	return e.bank.Verify()
}

// Checkpoint captures the bankroll for persistence.
func (e *Engine) Checkpoint() *bankroll.Checkpoint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bank.Checkpoint()
}

// Restore resumes a persisted session. Streak counters come from the
// checkpoint; pause state and the in-flight plan do not survive a restart.
// A checkpoint of an ended session restores it as SESSION_WON or SESSION_LOST.
func (e *Engine) Restore(cp *bankroll.Checkpoint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.bank.Restore(cp); err != nil {
		return err
	}
	e.clearRuntime()
	e.ended = false
	snap := e.bank.Snapshot()
	if !snap.InitialBankroll.IsPositive() {
		e.setStatus(model.StatusInactive, "no session")
		return nil
	}
	e.lastParams = bankroll.StartParams{
		Bankroll:          snap.InitialBankroll,
		BaseBet:           snap.BaseBet,
		StopWinPct:        snap.StopWinPct,
		StopLossPct:       snap.StopLossPct,
		PinkHuntMaxLosses: snap.PinkHuntMaxLosses,
		TacticWeights:     snap.TacticWeights,
		Profile:           snap.ProfileMode,
		Origin:            snap.OriginBankroll,
	}
	e.tuner = strategy.NewTuner(snap.ProfileMode, e.cfg.SmartConfirmRounds)
	if snap.IsActive {
		e.setStatus(model.StatusWaitingForData, "session restored")
		return nil
	}
	if status, reason, ok := stopOutcome(snap); ok {
		e.ended = true
		e.setStatus(status, reason)
		return nil
	}
	e.setStatus(model.StatusInactive, "session stopped")
	return nil
}
