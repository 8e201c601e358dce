package session

import "AviatorAdvisor/internal/planner"

// Config tunes the lifecycle machine.
type Config struct {
	MinHistory           int
	HistoryLimit         int
	BettingThreshold     float64
	MaxBlueStreakStop    int // 0 disables the blue-streak pause
	StrategicPauseLosses int // 0 disables the strategic pause
	StrategicPauseRounds int
	SmartMode            bool
	SmartConfirmRounds   int
	Planner              planner.Params
}

// DefaultConfig returns the stock lifecycle settings.
func DefaultConfig() Config {
	return Config{
		MinHistory:           10,
		HistoryLimit:         500,
		BettingThreshold:     planner.BettingThreshold,
		MaxBlueStreakStop:    0,
		StrategicPauseLosses: 0,
		StrategicPauseRounds: 3,
		SmartMode:            false,
		SmartConfirmRounds:   3,
		Planner:              planner.DefaultParams(),
	}
}
