// Package feed reads observed rounds and their analyzer signals from
// external sources.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"AviatorAdvisor/internal/model"
)

// Observation is one finished round plus the signals computed for it.
type Observation struct {
	Round   model.Round
	Signals model.Signals
}

// Fetcher returns the observations that became available since the last call.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Observation, error)
	Name() string
}

// record is the wire shape shared by the file and HTTP sources. Either
// Timestamp or Date+Time must be present.
type record struct {
	Multiplier float64       `json:"multiplier"`
	Timestamp  *time.Time    `json:"timestamp,omitempty"`
	Date       string        `json:"date,omitempty"`
	Time       string        `json:"time,omitempty"`
	Signals    model.Signals `json:"signals"`
}

func (r record) observation(loc *time.Location) (Observation, error) {
	var ts time.Time
	switch {
	case r.Timestamp != nil:
		ts = *r.Timestamp
	case r.Date != "" && r.Time != "":
		t, err := time.ParseInLocation("2006-01-02 15:04:05", r.Date+" "+r.Time, loc)
		if err != nil {
			return Observation{}, fmt.Errorf("parse round time: %w", err)
		}
		ts = t
	default:
		return Observation{}, fmt.Errorf("round at %.2fx has no timestamp", r.Multiplier)
	}
	return Observation{
		Round:   model.Round{Multiplier: r.Multiplier, Timestamp: ts},
		Signals: r.Signals,
	}, nil
}

// decodeRecord parses a single JSON document into an observation.
func decodeRecord(data []byte, loc *time.Location) (Observation, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return Observation{}, fmt.Errorf("decode round: %w", err)
	}
	return r.observation(loc)
}
