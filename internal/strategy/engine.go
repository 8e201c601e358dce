package strategy

import (
	"fmt"
	"math"

	"AviatorAdvisor/internal/calculator"
	"AviatorAdvisor/internal/model"
)

// Defensive guard: when losses outnumber wins over the last DefensiveWindow
// rounds, the final score is cut by DefensivePenalty.
const (
	DefensiveWindow  = 7
	DefensivePenalty = 0.25
)

// Score runs every registered tactic and combines them into one report.
// It has no side effects; identical inputs give identical reports.
func Score(history []model.Round, state model.BankrollState, signals model.Signals) model.ConfidenceReport {
	in := Input{History: history, State: state, Signals: signals}

	tactics := Registry()
	ordered := make([]model.TacticScore, 0, len(tactics))
	scores := make(map[string]model.TacticScore, len(tactics))
	for _, t := range tactics {
		ts := t.Evaluate(in)
		ts.Name = t.Name
		ts.Score = clampPct(ts.Score)
		ts.Weight = weightFor(state.TacticWeights, t)
		ordered = append(ordered, ts)
		scores[t.Name] = ts
	}

	raw := Aggregate(ordered)
	report := model.ConfidenceReport{
		FinalScore: raw,
		RawScore:   raw,
		Scores:     scores,
		Dominant:   Dominant(ordered),
	}

	if len(history) > 0 {
		wins, losses := calculator.WindowOutcomes(history, DefensiveWindow)
		if losses > wins {
			report.Defensive = true
			report.FinalScore = raw * (1 - DefensivePenalty)
		}
	}
	report.FinalScore = clampPct(report.FinalScore)
	return report
}

func weightFor(weights map[string]float64, t Tactic) float64 {
	w, ok := weights[t.Name]
	if !ok {
		w = t.DefaultWeight
	}
	return clampPct(w)
}

// Aggregate is the weight-normalized average of the voting tactics.
// Returns 0 when nothing votes.
func Aggregate(scores []model.TacticScore) float64 {
	var num, den float64
	for _, s := range scores {
		if !s.Voting() {
			continue
		}
		num += s.Score * s.Weight
		den += s.Weight
	}
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Dominant picks the voting tactic with the highest score*weight.
// Earlier entries win ties.
func Dominant(scores []model.TacticScore) *model.TacticScore {
	var best *model.TacticScore
	var bestProduct float64
	for i := range scores {
		s := scores[i]
		if !s.Voting() {
			continue
		}
		if p := s.Score * s.Weight; best == nil || p > bestProduct {
			cp := s
			best, bestProduct = &cp, p
		}
	}
	return best
}

// Summary renders the report as a one-line reason.
func Summary(r model.ConfidenceReport) string {
	if r.Dominant == nil {
		return fmt.Sprintf("confidence %.0f, no tactic voting", r.FinalScore)
	}
	s := fmt.Sprintf("confidence %.0f led by %s: %s", r.FinalScore, r.Dominant.Name, r.Dominant.Reasoning)
	if r.Defensive {
		s += " (defensive)"
	}
	return s
}
