package model

// Status is the lifecycle state of the session.
type Status string

const (
	StatusInactive           Status = "INACTIVE"
	StatusWaitingForData     Status = "WAITING_FOR_DATA"
	StatusWaiting            Status = "WAITING"
	StatusBetting            Status = "BETTING"
	StatusHunting            Status = "HUNTING"
	StatusRecovering         Status = "RECOVERING"
	StatusPausedBlueStreak   Status = "PAUSED_BLUE_STREAK"
	StatusPausedCriticalRisk Status = "PAUSED_CRITICAL_RISK"
	StatusPausedStrategic    Status = "PAUSED_STRATEGIC"
	StatusSessionWon         Status = "SESSION_WON"
	StatusSessionLost        Status = "SESSION_LOST"
)

var statusLabels = map[Status]string{
	StatusInactive:           "Inactive",
	StatusWaitingForData:     "Waiting for data",
	StatusWaiting:            "Waiting for an entry",
	StatusBetting:            "Betting",
	StatusHunting:            "Hunting pink",
	StatusRecovering:         "Recovering losses",
	StatusPausedBlueStreak:   "Paused: blue streak",
	StatusPausedCriticalRisk: "Paused: critical pause risk",
	StatusPausedStrategic:    "Paused: strategic break",
	StatusSessionWon:         "Session won",
	StatusSessionLost:        "Session lost",
}

// Label is the human-readable status text.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Terminal reports whether s ends the session until an explicit reset.
func (s Status) Terminal() bool {
	return s == StatusSessionWon || s == StatusSessionLost
}

// Paused reports whether s is one of the pause states.
func (s Status) Paused() bool {
	switch s {
	case StatusPausedBlueStreak, StatusPausedCriticalRisk, StatusPausedStrategic:
		return true
	}
	return false
}

// Wagering reports whether s carries a live plan.
func (s Status) Wagering() bool {
	switch s {
	case StatusBetting, StatusHunting, StatusRecovering:
		return true
	}
	return false
}
