package model

// MarketState is the four-level market classification supplied upstream.
type MarketState string

const (
	MarketCold    MarketState = "COLD"
	MarketNeutral MarketState = "NEUTRAL"
	MarketWarm    MarketState = "WARM"
	MarketHot     MarketState = "HOT"
)

// RiskLevel is the four-level scale shared by pressure and pause-risk analyzers.
type RiskLevel string

const (
	LevelLow      RiskLevel = "LOW"
	LevelMedium   RiskLevel = "MEDIUM"
	LevelHigh     RiskLevel = "HIGH"
	LevelCritical RiskLevel = "CRITICAL"
)

// Rank orders risk levels, LOW=1 .. CRITICAL=4. Unknown levels rank 0.
func (l RiskLevel) Rank() int {
	switch l {
	case LevelLow:
		return 1
	case LevelMedium:
		return 2
	case LevelHigh:
		return 3
	case LevelCritical:
		return 4
	default:
		return 0
	}
}

// MarketSignal is the market-state classifier output.
type MarketSignal struct {
	State      MarketState `json:"marketState"`
	Percentage float64     `json:"percentage"`
}

// Pressure is the output of the pink/purple pressure and pause-risk analyzers.
type Pressure struct {
	Level      RiskLevel `json:"level"`
	Percentage float64   `json:"percentage"`
	Factors    []string  `json:"factors,omitempty"`
}

// PatternAlerts reports the pattern-proximity analyzer alerts.
type PatternAlerts struct {
	DoublePink      bool `json:"doublePink"`
	CloseRepetition bool `json:"closeRepetition"`
}

// Any reports whether at least one alert is active.
func (p *PatternAlerts) Any() bool {
	return p != nil && (p.DoublePink || p.CloseRepetition)
}

// HotMinute is one row of the hot-minute table (minute of the hour 0-59).
type HotMinute struct {
	Minute   int     `json:"minute"`
	Strength float64 `json:"strength"`
}

// HotHour is one row of the hot-house table (hour of the day 0-23).
type HotHour struct {
	Hour     int     `json:"hour"`
	Strength float64 `json:"strength"`
}

// Signals is the read-only snapshot supplied by the external analyzers for one round.
// Any nil field means the analyzer produced nothing for this round.
type Signals struct {
	Market         *MarketSignal  `json:"market,omitempty"`
	PinkPressure   *Pressure      `json:"pinkPressure,omitempty"`
	PurplePressure *Pressure      `json:"purplePressure,omitempty"`
	PauseRisk      *Pressure      `json:"pauseRisk,omitempty"`
	Patterns       *PatternAlerts `json:"patterns,omitempty"`
	HotMinutes     []HotMinute    `json:"hotMinutes,omitempty"`
	HotHours       []HotHour      `json:"hotHours,omitempty"`
}
