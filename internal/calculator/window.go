package calculator

import "AviatorAdvisor/internal/model"

// Tail returns the last n rounds (all of them when fewer are available).
func Tail(rounds []model.Round, n int) []model.Round {
	if n <= 0 {
		return nil
	}
	if len(rounds) <= n {
		return rounds
	}
	return rounds[len(rounds)-n:]
}

// WindowOutcomes counts winning (>= 2.00x) and losing rounds among the last n.
func WindowOutcomes(rounds []model.Round, n int) (wins, losses int) {
	for _, r := range Tail(rounds, n) {
		if r.IsLoss() {
			losses++
		} else {
			wins++
		}
	}
	return wins, losses
}

// RecentHigh reports whether any of the last n rounds reached threshold.
func RecentHigh(rounds []model.Round, n int, threshold float64) bool {
	if threshold <= 0 {
		return false
	}
	for _, r := range Tail(rounds, n) {
		if r.Multiplier >= threshold {
			return true
		}
	}
	return false
}

// ColorCounts tallies the colors among the last n rounds.
func ColorCounts(rounds []model.Round, n int) map[model.Color]int {
	out := map[model.Color]int{}
	for _, r := range Tail(rounds, n) {
		out[r.Color()]++
	}
	return out
}
