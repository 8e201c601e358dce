package strategy

import "AviatorAdvisor/internal/model"

// SelectProfile picks the risk profile the current signals call for.
func SelectProfile(s model.Signals) (model.ProfileMode, string) {
	risk := 0
	if s.PauseRisk != nil {
		risk = s.PauseRisk.Level.Rank()
	}
	var state model.MarketState
	if s.Market != nil {
		state = s.Market.State
	}

	switch {
	case risk >= model.LevelHigh.Rank():
		return model.ProfileConservador, "pause risk " + string(s.PauseRisk.Level)
	case state == model.MarketCold:
		return model.ProfileConservador, "cold market"
	case state == model.MarketHot && risk <= model.LevelLow.Rank():
		return model.ProfileElite, "hot market with low pause risk"
	default:
		return model.ProfileModerado, "mixed signals"
	}
}

// Tuner applies SelectProfile with hysteresis: a candidate profile must be
// selected ConfirmRounds times in a row before it replaces the current one.
type Tuner struct {
	ConfirmRounds int

	current   model.ProfileMode
	candidate model.ProfileMode
	streak    int
}

// NewTuner creates a tuner starting from the given profile.
func NewTuner(current model.ProfileMode, confirmRounds int) *Tuner {
	if confirmRounds < 1 {
		confirmRounds = 1
	}
	return &Tuner{ConfirmRounds: confirmRounds, current: current}
}

// Current returns the applied profile.
func (t *Tuner) Current() model.ProfileMode {
	return t.current
}

// Observe feeds one round of signals. It returns a change event only on the
// round the new profile is applied.
func (t *Tuner) Observe(s model.Signals) *model.ProfileChangeEvent {
	mode, reason := SelectProfile(s)
	if mode == t.current {
		t.candidate, t.streak = "", 0
		return nil
	}
	if mode != t.candidate {
		t.candidate, t.streak = mode, 0
	}
	t.streak++
	if t.streak < t.ConfirmRounds {
		return nil
	}

	evt := &model.ProfileChangeEvent{From: t.current, To: mode, Reason: reason}
	t.current = mode
	t.candidate, t.streak = "", 0
	return evt
}
