package session

import (
	"time"

	"AviatorAdvisor/internal/model"
)

// BestTime suggests when to come back after a stop-loss, from the strongest
// hot hour and hot minute strictly after now. Returns nil without data.
func BestTime(s model.Signals, now time.Time) *string {
	var hour *model.HotHour
	for i := range s.HotHours {
		h := s.HotHours[i]
		if h.Hour < 0 || h.Hour > 23 {
			continue
		}
		if hour == nil || h.Strength > hour.Strength {
			hour = &h
		}
	}
	var minute *model.HotMinute
	for i := range s.HotMinutes {
		m := s.HotMinutes[i]
		if m.Minute < 0 || m.Minute > 59 {
			continue
		}
		if minute == nil || m.Strength > minute.Strength {
			minute = &m
		}
	}

	var at time.Time
	switch {
	case hour != nil:
		mm := 0
		if minute != nil {
			mm = minute.Minute
		}
		at = time.Date(now.Year(), now.Month(), now.Day(), hour.Hour, mm, 0, 0, now.Location())
		if !at.After(now) {
			at = at.Add(24 * time.Hour)
		}
	case minute != nil:
		at = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), minute.Minute, 0, 0, now.Location())
		if !at.After(now) {
			at = at.Add(time.Hour)
		}
	default:
		return nil
	}
	out := at.Format("15:04")
	return &out
}
