package strategy

import (
	"fmt"
	"math"

	"AviatorAdvisor/internal/calculator"
	"AviatorAdvisor/internal/model"
)

// Tactic names.
const (
	TacticMarketHeat     = "market_heat"
	TacticReversal       = "reversal"
	TacticHotMinute      = "hot_minute"
	TacticPinkPressure   = "pink_pressure"
	TacticPurplePressure = "purple_pressure"
	TacticPinkPattern    = "pink_pattern"
)

// PinkTarget is the multiplier a pink-seeking tactic suggests.
const PinkTarget = model.PinkThreshold

// Input is everything a tactic may look at.
type Input struct {
	History []model.Round
	State   model.BankrollState
	Signals model.Signals
}

// Tactic is one independent heuristic. Evaluate only fills Score, Reasoning
// and SuggestedTarget; the engine adds the name and weight.
type Tactic struct {
	Name          string
	DefaultWeight float64
	Evaluate      func(in Input) model.TacticScore
}

// Registry returns the tactics in aggregation order.
func Registry() []Tactic {
	return []Tactic{
		{Name: TacticMarketHeat, DefaultWeight: 25, Evaluate: scoreMarketHeat},
		{Name: TacticReversal, DefaultWeight: 20, Evaluate: scoreReversal},
		{Name: TacticHotMinute, DefaultWeight: 15, Evaluate: scoreHotMinute},
		{Name: TacticPinkPressure, DefaultWeight: 15, Evaluate: scorePinkPressure},
		{Name: TacticPurplePressure, DefaultWeight: 15, Evaluate: scorePurplePressure},
		{Name: TacticPinkPattern, DefaultWeight: 10, Evaluate: scorePinkPattern},
	}
}

// DefaultWeights returns the registry weights keyed by tactic name.
func DefaultWeights() map[string]float64 {
	out := make(map[string]float64)
	for _, t := range Registry() {
		out[t.Name] = t.DefaultWeight
	}
	return out
}

func abstain(reason string) model.TacticScore {
	return model.TacticScore{Score: 0, Reasoning: reason}
}

func clampPct(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// scoreMarketHeat maps the market classification to a score.
// COLD abstains; HOT suggests a slightly higher target.
func scoreMarketHeat(in Input) model.TacticScore {
	m := in.Signals.Market
	if m == nil {
		return abstain("market state unavailable")
	}
	pct := clampPct(m.Percentage)

	var score, target float64
	switch m.State {
	case model.MarketHot:
		score, target = 70+pct*0.30, 2.50
	case model.MarketWarm:
		score, target = 55+pct*0.25, 2.00
	case model.MarketNeutral:
		score, target = 35+pct*0.15, 1.80
	default:
		return abstain(fmt.Sprintf("market %s", m.State))
	}
	return model.TacticScore{
		Score:           clampPct(score),
		Reasoning:       fmt.Sprintf("market %s (%.0f%%)", m.State, pct),
		SuggestedTarget: target,
	}
}

// scoreReversal estimates the chance that the current losing streak breaks.
func scoreReversal(in Input) model.TacticScore {
	streak := calculator.LosingStreak(in.History)
	if streak < MinReversalStreak {
		return abstain("no losing streak")
	}
	p := ContinueProbability(streak)
	indicator := (1 - p) - p
	return model.TacticScore{
		Score:           clampPct((indicator + 1) / 2 * 100),
		Reasoning:       fmt.Sprintf("%d blues in a row, p(continue)=%.2f", streak, p),
		SuggestedTarget: 2.00,
	}
}

// minuteFalloff weights a hot minute by its distance from the next round.
var minuteFalloff = []float64{1.0, 0.8, 0.6}

// scoreHotMinute scores proximity of the upcoming minute to the hot-minute
// table, blended with the current hour's strength from the hot-house table.
func scoreHotMinute(in Input) model.TacticScore {
	if len(in.History) == 0 || len(in.Signals.HotMinutes) == 0 {
		return abstain("no hot-minute data")
	}
	last := in.History[len(in.History)-1].Timestamp
	next := (last.Minute() + 1) % 60

	var best float64
	var bestMinute int
	for _, hm := range in.Signals.HotMinutes {
		d := minuteDistance(next, hm.Minute)
		if d >= len(minuteFalloff) {
			continue
		}
		if s := clampPct(hm.Strength) * minuteFalloff[d]; s > best {
			best, bestMinute = s, hm.Minute
		}
	}
	if best == 0 {
		return abstain(fmt.Sprintf("minute %02d is not near a hot minute", next))
	}

	score := best
	for _, hh := range in.Signals.HotHours {
		if hh.Hour == last.Hour() {
			score = 0.75*best + 0.25*clampPct(hh.Strength)
			break
		}
	}
	return model.TacticScore{
		Score:           clampPct(score),
		Reasoning:       fmt.Sprintf("minute %02d near hot minute %02d", next, bestMinute),
		SuggestedTarget: 2.00,
	}
}

func minuteDistance(a, b int) int {
	d := (a - b) % 60
	if d < 0 {
		d = -d
	}
	if d > 30 {
		d = 60 - d
	}
	return d
}

func scorePressure(p *model.Pressure, label string, target float64) model.TacticScore {
	if p == nil {
		return abstain(label + " pressure unavailable")
	}
	if p.Level.Rank() < model.LevelHigh.Rank() {
		return abstain(fmt.Sprintf("%s pressure %s", label, p.Level))
	}
	return model.TacticScore{
		Score:           clampPct(p.Percentage),
		Reasoning:       fmt.Sprintf("%s pressure %s (%.0f%%)", label, p.Level, clampPct(p.Percentage)),
		SuggestedTarget: target,
	}
}

// scorePinkPressure votes only when pink pressure is HIGH or CRITICAL.
func scorePinkPressure(in Input) model.TacticScore {
	return scorePressure(in.Signals.PinkPressure, "pink", PinkTarget)
}

// scorePurplePressure votes only when purple pressure is HIGH or CRITICAL.
func scorePurplePressure(in Input) model.TacticScore {
	return scorePressure(in.Signals.PurplePressure, "purple", 3.00)
}

// scorePinkPattern scores the pattern-proximity alerts.
func scorePinkPattern(in Input) model.TacticScore {
	p := in.Signals.Patterns
	if !p.Any() {
		return abstain("no pattern alert")
	}
	var score float64
	var reason string
	switch {
	case p.DoublePink && p.CloseRepetition:
		score, reason = 85, "double pink and close repetition alerting"
	case p.DoublePink:
		score, reason = 75, "double pink alerting"
	default:
		score, reason = 65, "close repetition alerting"
	}
	if since := calculator.RoundsSincePink(in.History); since >= 0 && since <= 3 {
		score += 5
		reason += fmt.Sprintf(", last pink %d rounds ago", since)
	}
	return model.TacticScore{
		Score:           clampPct(score),
		Reasoning:       reason,
		SuggestedTarget: PinkTarget,
	}
}
