package model

// TacticScore is one heuristic's vote for the current round.
type TacticScore struct {
	Name            string  `json:"name"`
	Score           float64 `json:"score"` // 0 ~ 100, 0 means abstain
	Reasoning       string  `json:"reasoning"`
	SuggestedTarget float64 `json:"suggestedTarget"`
	Weight          float64 `json:"weight"` // 0 ~ 100
}

// Voting reports whether the tactic takes part in aggregation.
func (t TacticScore) Voting() bool {
	return t.Score > 0 && t.Weight > 0
}

// ConfidenceReport is the composite output of the scoring engine.
type ConfidenceReport struct {
	FinalScore float64                `json:"finalScore"`
	RawScore   float64                `json:"rawScore"`
	Defensive  bool                   `json:"defensive"`
	Scores     map[string]TacticScore `json:"scores"`
	Dominant   *TacticScore           `json:"dominant,omitempty"`
}
