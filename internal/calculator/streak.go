package calculator

import "AviatorAdvisor/internal/model"

// LosingStreak counts the trailing consecutive losing (blue) rounds.
func LosingStreak(rounds []model.Round) int {
	n := 0
	for i := len(rounds) - 1; i >= 0; i-- {
		if !rounds[i].IsLoss() {
			break
		}
		n++
	}
	return n
}

// BlueStreak is the trailing run of blue rounds used by the pause logic.
// A blue round is a losing round, so it is LosingStreak under another name.
func BlueStreak(rounds []model.Round) int {
	return LosingStreak(rounds)
}

// RoundsSince returns how many rounds ago the predicate last held, or -1 if never.
// A match on the latest round returns 0.
func RoundsSince(rounds []model.Round, pred func(model.Round) bool) int {
	for i := len(rounds) - 1; i >= 0; i-- {
		if pred(rounds[i]) {
			return len(rounds) - 1 - i
		}
	}
	return -1
}

// RoundsSincePink is RoundsSince for pink rounds.
func RoundsSincePink(rounds []model.Round) int {
	return RoundsSince(rounds, func(r model.Round) bool { return r.Color() == model.ColorPink })
}
