package planner

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"AviatorAdvisor/internal/model"
)

var report = model.ConfidenceReport{FinalScore: 80}

func state(initial, current float64, mode model.ProfileMode) model.BankrollState {
	return model.BankrollState{
		InitialBankroll: decimal.NewFromFloat(initial),
		CurrentBankroll: decimal.NewFromFloat(current),
		BaseBet:         decimal.NewFromInt(10),
		ProfileMode:     mode,
		IsActive:        true,
	}
}

func history(mults ...float64) []model.Round {
	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	out := make([]model.Round, len(mults))
	for i, m := range mults {
		out[i] = model.Round{Multiplier: m, Timestamp: start.Add(time.Duration(i) * time.Minute)}
	}
	return out
}

var calm = Context{History: history(1.5, 2.3, 1.2, 3.4)}

func TestPlan_DeficitRecoveryMath(t *testing.T) {
	g := New(DefaultParams())
	p := g.Plan(report, state(100, 80, model.ProfileModerado), nil, calm)

	want := Clamp((20 + 10*0.10) / 0.80)
	if p.Safety.Amount != want || want != 26.25 {
		t.Errorf("expected safety stake 26.25, got %.4f (formula %.4f)", p.Safety.Amount, want)
	}
	if p.Safety.TargetMultiplier != 1.80 {
		t.Errorf("expected recovery target 1.80, got %.2f", p.Safety.TargetMultiplier)
	}
	if p.Profit.Active() {
		t.Errorf("profit leg must be off without dual strategy, got %+v", p.Profit)
	}
	if p.Branch != model.BranchDeficit {
		t.Errorf("expected deficit branch, got %s", p.Branch)
	}
}

func TestPlan_DeficitGuardsBadTarget(t *testing.T) {
	params := DefaultParams()
	params.RecoveryTarget = 1.0
	p := New(params).Plan(report, state(100, 80, model.ProfileModerado), nil, calm)
	if p.Safety.TargetMultiplier != DefaultRecoveryTarget || p.Safety.Amount != 26.25 {
		t.Errorf("expected fallback to 1.80 / 26.25, got %+v", p.Safety)
	}
}

func TestPlan_DeficitClampedToMaxBet(t *testing.T) {
	p := New(DefaultParams()).Plan(report, state(10000, 1000, model.ProfileModerado), nil, calm)
	if p.Safety.Amount != MaxBet {
		t.Errorf("expected %.2f, got %.2f", MaxBet, p.Safety.Amount)
	}
}

func TestPlan_DeficitDualStrategy(t *testing.T) {
	params := DefaultParams()
	params.DualStrategy = true
	p := New(params).Plan(report, state(100, 80, model.ProfileConservador), nil, calm)
	if p.Profit.Amount != 5 || p.Profit.TargetMultiplier != 2.50 {
		t.Errorf("expected parallel 5.00 @ 2.50x, got %+v", p.Profit)
	}
}

func TestPlan_HuntCeiling(t *testing.T) {
	s := state(100, 100, model.ProfileElite)
	s.PinkHuntMaxLosses = 3
	s.PinkHuntConsecutiveLosses = 3
	dom := &model.TacticScore{Name: "pink_pressure", Score: 90, Weight: 15, SuggestedTarget: 10}
	p := New(DefaultParams()).Plan(report, s, dom, calm)
	if p.Branch != model.BranchHuntCeiling {
		t.Fatalf("expected hunt ceiling, got %s", p.Branch)
	}
	if p.Profit.Active() {
		t.Errorf("profit leg must be disabled, got %+v", p.Profit)
	}
	if p.Safety.Amount != 10 || p.Safety.TargetMultiplier != 2.50 {
		t.Errorf("unexpected safety leg %+v", p.Safety)
	}
}

func TestPlan_LossRecovery(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		trailing int64
		want     float64
	}{
		{"uncapped", 110, 20, 21},
		{"capped at quarter bankroll", 120, 100, 30},
	}
	for _, tt := range tests {
		s := state(100, tt.current, model.ProfileModerado)
		s.ConsecutiveLosses = 2
		s.TrailingLoss = decimal.NewFromInt(tt.trailing)
		p := New(DefaultParams()).Plan(report, s, nil, calm)
		if p.Branch != model.BranchLossRecovery {
			t.Fatalf("%s: expected loss recovery, got %s", tt.name, p.Branch)
		}
		if p.Safety.Amount != tt.want {
			t.Errorf("%s: expected %.2f, got %.2f", tt.name, tt.want, p.Safety.Amount)
		}
		if p.Profit.Active() {
			t.Errorf("%s: profit leg must be off", tt.name)
		}
	}
}

func TestPlan_NormalProfiles(t *testing.T) {
	dom := &model.TacticScore{Name: "pink_pressure", Score: 90, Weight: 15, SuggestedTarget: 10}
	tests := []struct {
		mode         model.ProfileMode
		safetyTarget float64
		profitStake  float64
		profitTarget float64
	}{
		{model.ProfileConservador, 1.80, 5, 3},
		{model.ProfileModerado, 2.00, 7.5, 5},
		{model.ProfileElite, 2.50, 10, 10},
	}
	for _, tt := range tests {
		p := New(DefaultParams()).Plan(report, state(100, 100, tt.mode), dom, calm)
		if p.Branch != model.BranchNormal {
			t.Fatalf("%s: expected normal branch, got %s", tt.mode, p.Branch)
		}
		if p.Safety.Amount != 10 || p.Safety.TargetMultiplier != tt.safetyTarget {
			t.Errorf("%s: unexpected safety %+v", tt.mode, p.Safety)
		}
		if p.Profit.Amount != tt.profitStake || p.Profit.TargetMultiplier != tt.profitTarget {
			t.Errorf("%s: unexpected profit %+v", tt.mode, p.Profit)
		}
	}
}

func TestPlan_SpikeGate(t *testing.T) {
	ctx := Context{History: calm.History, Signals: model.Signals{Patterns: &model.PatternAlerts{DoublePink: true}}}

	elite := New(DefaultParams()).Plan(report, state(100, 100, model.ProfileElite), nil, ctx)
	if elite.Profit.TargetMultiplier != 50 || elite.Profit.Amount != 2.5 {
		t.Errorf("expected spike 2.50 @ 50x, got %+v", elite.Profit)
	}

	moderate := New(DefaultParams()).Plan(report, state(100, 100, model.ProfileModerado), nil, ctx)
	if moderate.Profit.TargetMultiplier > 5 {
		t.Errorf("spike must be Elite-only, got %+v", moderate.Profit)
	}
}

func TestPlan_CautiousAfterSpike(t *testing.T) {
	ctx := Context{History: history(1.2, 2.0, 87.3)}
	p := New(DefaultParams()).Plan(report, state(100, 100, model.ProfileModerado), nil, ctx)
	if !p.Cautious {
		t.Fatal("expected cautious mode after 87x")
	}
	if p.Safety.Amount != 2.5 || p.Profit.Active() {
		t.Errorf("expected 2.50 safety and no profit leg, got %+v / %+v", p.Safety, p.Profit)
	}

	later := Context{History: history(87.3, 1.2)}
	if New(DefaultParams()).Plan(report, state(100, 100, model.ProfileModerado), nil, later).Cautious {
		t.Error("caution lasts one round by default")
	}
}

func TestPlan_BaselineMode(t *testing.T) {
	s := state(80, 80, model.ProfileModerado)
	s.OriginBankroll = decimal.NewFromInt(100)

	if p := New(DefaultParams()).Plan(report, s, nil, calm); p.Branch != model.BranchNormal {
		t.Errorf("session baseline: expected normal, got %s", p.Branch)
	}
	params := DefaultParams()
	params.Baseline = BaselineOrigin
	p := New(params).Plan(report, s, nil, calm)
	if p.Branch != model.BranchDeficit || p.Safety.Amount != 26.25 {
		t.Errorf("origin baseline: expected deficit 26.25, got %s %.2f", p.Branch, p.Safety.Amount)
	}
}

func TestPreviews(t *testing.T) {
	g := New(DefaultParams())
	s := state(100, 100, model.ProfileModerado)
	dom := &model.TacticScore{Name: "market_heat", Score: 90, Weight: 25, SuggestedTarget: 5}
	rep := model.ConfidenceReport{FinalScore: 80, Dominant: dom}
	ctx := Context{History: history(1.5, 2.3, 1.2, 3.4)}

	plan := g.Plan(rep, s, dom, ctx)
	win, lose := g.Previews(rep, s, plan, ctx)

	if win.Branch != model.BranchNormal {
		t.Errorf("after a win the bankroll is up, expected normal, got %s", win.Branch)
	}
	if lose.Branch != model.BranchDeficit {
		t.Errorf("after a loss the bankroll is down, expected deficit, got %s", lose.Branch)
	}
	if len(ctx.History) != 4 {
		t.Errorf("previews must not touch the history, len=%d", len(ctx.History))
	}

	win2, lose2 := g.Previews(rep, s, plan, ctx)
	if !reflect.DeepEqual(win, win2) || !reflect.DeepEqual(lose, lose2) {
		t.Error("previews must be deterministic")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{-5, 0},
		{0.3, MinBet},
		{12.345, 12.35},
		{9999, MaxBet},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%.3f): expected %.2f, got %.2f", tt.in, tt.want, got)
		}
	}
}
