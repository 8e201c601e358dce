package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"AviatorAdvisor/internal/config"
	"AviatorAdvisor/internal/feed"
	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/recorder"
	"AviatorAdvisor/internal/scheduler"
	"AviatorAdvisor/internal/session"
)

// replayResult is the summary printed after a replay.
type replayResult struct {
	Rounds         int                    `json:"rounds"`
	Skipped        int                    `json:"skipped"`
	Settled        int                    `json:"settled"`
	Wins           int                    `json:"wins"`
	Losses         int                    `json:"losses"`
	Status         model.Status           `json:"status"`
	Initial        string                 `json:"initial_bankroll"`
	Final          string                 `json:"final_bankroll"`
	Sessions       int                    `json:"sessions"`
	StatusCounts   map[string]int         `json:"status_counts"`
	LastSessionEnd *model.SessionEndEvent `json:"last_session_end,omitempty"`
}

func newReplayCmd(cfg *config.Config) *cobra.Command {
	var dbPath string
	var asJSON bool
	var chain bool

	cmd := &cobra.Command{
		Use:   "replay <rounds.jsonl>",
		Short: "Run a recorded round file through a fresh session and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open rounds: %w", err)
			}
			defer f.Close()

			obs, err := feed.ReadAll(f, cfg.Location())
			if err != nil {
				return err
			}

			var rec recorder.Recorder = recorder.NewNoopRecorder()
			if dbPath != "" {
				sr, err := recorder.NewSQLiteRecorder(dbPath)
				if err != nil {
					return err
				}
				defer sr.Close()
				rec = sr
			}

			res, err := replay(cfg, obs, rec, chain)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "rounds:   %d (settled %d: %d won, %d lost)\n", res.Rounds, res.Settled, res.Wins, res.Losses)
			fmt.Fprintf(out, "bankroll: %s -> %s\n", res.Initial, res.Final)
			fmt.Fprintf(out, "status:   %s (%d sessions)\n", res.Status.Label(), res.Sessions)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "record the replay to this SQLite file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&chain, "continue", false, "continue with the remaining balance after each session end")
	return cmd
}

func replay(cfg *config.Config, obs []feed.Observation, rec recorder.Recorder, chain bool) (*replayResult, error) {
	eng := session.New(cfg.EngineConfig(), session.WithLogger(engineLogger()))
	sched := scheduler.NewScheduler(context.Background(), nil, eng, nil, rec)

	start := time.Now()
	if len(obs) > 0 {
		start = obs[0].Round.Timestamp
	}
	if err := eng.Start(cfg.StartParams(), start); err != nil {
		return nil, err
	}

	res := &replayResult{
		Initial:      eng.Snapshot().InitialBankroll.StringFixed(2),
		Sessions:     1,
		StatusCounts: make(map[string]int),
	}
	for _, o := range obs {
		step, err := sched.Process(o)
		if errors.Is(err, session.ErrInvalidRound) {
			res.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		res.Rounds++
		res.StatusCounts[string(step.Status)]++
		if s := step.Settlement; s != nil && s.Settled {
			res.Settled++
			if s.Won {
				res.Wins++
			} else {
				res.Losses++
			}
		}
		if evt := step.Events.SessionEnd; evt != nil {
			res.LastSessionEnd = evt
			if chain {
				if err := eng.Continue(o.Round.Timestamp); err != nil {
					return nil, err
				}
				res.Sessions++
			}
		}
	}

	v := eng.View()
	res.Status = v.Status
	res.Final = v.Bankroll.CurrentBankroll.StringFixed(2)
	return res, nil
}
