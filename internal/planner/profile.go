package planner

import "AviatorAdvisor/internal/model"

// Profile holds the per-mode targets and stakes of the normal branch.
type Profile struct {
	SafetyTarget float64
	ProfitStake  float64 // fraction of the base bet
	ProfitMin    float64
	ProfitMax    float64
}

var profiles = map[model.ProfileMode]Profile{
	model.ProfileConservador: {SafetyTarget: 1.80, ProfitStake: 0.50, ProfitMin: 2.50, ProfitMax: 3.00},
	model.ProfileModerado:    {SafetyTarget: 2.00, ProfitStake: 0.75, ProfitMin: 3.00, ProfitMax: 5.00},
	model.ProfileElite:       {SafetyTarget: 2.50, ProfitStake: 1.00, ProfitMin: 5.00, ProfitMax: 10.00},
}

// ProfileFor returns the profile for mode, Moderado when unknown.
func ProfileFor(mode model.ProfileMode) Profile {
	if p, ok := profiles[mode]; ok {
		return p
	}
	return profiles[model.ProfileModerado]
}

// profitTarget clamps the dominant tactic's suggestion into the profile range.
func (p Profile) profitTarget(suggested float64) float64 {
	switch {
	case suggested <= 0:
		return p.ProfitMin
	case suggested < p.ProfitMin:
		return p.ProfitMin
	case suggested > p.ProfitMax:
		return p.ProfitMax
	default:
		return suggested
	}
}
