package strategy

// MinReversalStreak is the shortest losing streak the reversal tactic votes on.
const MinReversalStreak = 2

// MaxReversalStreak caps the streak length used to index ReversalTable.
const MaxReversalStreak = 25

// ReversalTable maps a losing-streak length (index, capped at MaxReversalStreak)
// to the empirical probability that the next round is also a loss.
// Tunable: replace the values to recalibrate the reversal tactic.
var ReversalTable = [MaxReversalStreak + 1]float64{
	0.52, 0.50, 0.48, 0.46, 0.44, // 0-4
	0.42, 0.40, 0.38, 0.36, 0.34, // 5-9
	0.32, 0.30, 0.29, 0.28, 0.27, // 10-14
	0.26, 0.25, 0.24, 0.23, 0.22, // 15-19
	0.21, 0.20, 0.19, 0.18, 0.17, // 20-24
	0.16, // 25+
}

// ContinueProbability looks up the continuation probability for a streak.
func ContinueProbability(streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	if streak > MaxReversalStreak {
		streak = MaxReversalStreak
	}
	return ReversalTable[streak]
}
