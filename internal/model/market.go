package model

import "time"

// Color thresholds used across the engine.
const (
	PurpleThreshold = 2.00
	PinkThreshold   = 10.00
)

// Color is the display bucket of a round multiplier.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
)

// Round is a single observed crash outcome. Rounds are never mutated once observed.
type Round struct {
	Multiplier float64   `json:"multiplier"`
	Timestamp  time.Time `json:"timestamp"`
}

// Color classifies the round: blue below 2.00x, pink from 10.00x, purple in between.
func (r Round) Color() Color {
	switch {
	case r.Multiplier >= PinkThreshold:
		return ColorPink
	case r.Multiplier >= PurpleThreshold:
		return ColorPurple
	default:
		return ColorBlue
	}
}

// IsLoss reports whether the round is a losing (blue) outcome.
func (r Round) IsLoss() bool {
	return r.Multiplier < PurpleThreshold
}
