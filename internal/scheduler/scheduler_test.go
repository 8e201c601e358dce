package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AviatorAdvisor/internal/bankroll"
	"AviatorAdvisor/internal/feed"
	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/recorder"
	"AviatorAdvisor/internal/session"
)

type captureSender struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureSender) SendWithRetry(_ context.Context, text string, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, text)
	return nil
}

func (c *captureSender) joined() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.msgs, "\n---\n")
}

func observations(n int, mult float64) []feed.Observation {
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	sig := model.Signals{Market: &model.MarketSignal{State: model.MarketHot, Percentage: 100}}
	out := make([]feed.Observation, n)
	for i := range out {
		out[i] = feed.Observation{
			Round:   model.Round{Multiplier: mult, Timestamp: at.Add(time.Duration(i+1) * time.Minute)},
			Signals: sig,
		}
	}
	return out
}

func params() bankroll.StartParams {
	return bankroll.StartParams{
		Bankroll:    decimal.NewFromInt(100),
		BaseBet:     decimal.NewFromInt(10),
		StopWinPct:  50,
		StopLossPct: 90,
		Profile:     model.ProfileModerado,
	}
}

func newScheduler(t *testing.T, dir string, obs []feed.Observation) (*Scheduler, *captureSender, recorder.Recorder) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(dir, "aviator.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	sender := &captureSender{}
	col := feed.NewCollector(&feed.MockFetcher{Observations: obs})
	s := NewScheduler(context.Background(), col, session.New(session.DefaultConfig()), sender, rec)
	s.Params = params()
	s.StateFile = filepath.Join(dir, "state.json")
	return s, sender, rec
}

func TestPollDrivesSessionToStopWin(t *testing.T) {
	dir := t.TempDir()
	s, sender, rec := newScheduler(t, dir, observations(13, 3.0))

	reply := s.HandleCommand("/start")
	assert.Contains(t, reply, "Waiting for data")

	s.PollNow()

	v := s.Engine.View()
	assert.Equal(t, model.StatusSessionWon, v.Status)
	assert.True(t, v.Bankroll.CurrentBankroll.Equal(decimal.NewFromInt(150)))

	msgs := sender.joined()
	assert.Contains(t, msgs, "Stop win reached")
	assert.Contains(t, msgs, "Safety: 10.00 @ 2.00x")

	sum, err := rec.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Rounds)
	assert.Equal(t, 3, sum.Transactions)
	assert.Equal(t, 1, sum.SessionsWon)
	assert.InDelta(t, 50, sum.NetProfit, 1e-9)

	cp, err := bankroll.LoadState(s.StateFile)
	require.NoError(t, err)
	assert.Len(t, cp.Transactions, 3)
	assert.False(t, cp.State.IsActive)
}

func TestRestoreSkipsSettledRounds(t *testing.T) {
	dir := t.TempDir()
	obs := observations(13, 3.0)
	first, _, _ := newScheduler(t, dir, obs)
	first.HandleCommand("/start")
	first.PollNow()

	second, _, _ := newScheduler(t, dir, obs)
	require.NoError(t, second.Restore())
	second.PollNow()

	assert.True(t, second.Engine.Snapshot().CurrentBankroll.Equal(decimal.NewFromInt(150)))
	assert.Len(t, second.Engine.Transactions(), 3)
	assert.NoError(t, second.Engine.Verify())

	assert.Equal(t, model.StatusSessionWon, second.Engine.View().Status)
	assert.Contains(t, second.HandleCommand("/start"), "reset or continue first")
	assert.Len(t, second.Engine.Transactions(), 3)
}

func TestHandleCommands(t *testing.T) {
	s, _, _ := newScheduler(t, t.TempDir(), nil)

	assert.Contains(t, s.HandleCommand("hello"), "/status")
	assert.Contains(t, s.HandleCommand("/correct 5"), "no active session")

	s.HandleCommand("/start")
	assert.Contains(t, s.HandleCommand("/start"), "already active")
	assert.Equal(t, "✏️ Balance now 105.00", s.HandleCommand("/correct 5 found chips"))
	assert.Contains(t, s.HandleCommand("/correct abc"), "invalid amount")

	ledger := s.HandleCommand("/ledger")
	assert.Contains(t, ledger, "START 100.00")
	assert.Contains(t, ledger, "CORRECTION 5.00 → 105.00")

	assert.Contains(t, s.HandleCommand("/continue"), "has not ended")
	assert.Equal(t, "⏹ Session stopped", s.HandleCommand("/stop"))
	assert.Contains(t, s.HandleCommand("/report"), "Settled rounds: 0")
	s.HandleCommand("/reset")
	assert.Equal(t, "Ledger is empty", s.HandleCommand("/ledger"))
}

func TestRegisterAllRejectsBadSchedule(t *testing.T) {
	s, _, _ := newScheduler(t, t.TempDir(), nil)
	assert.Error(t, s.RegisterAll(0, ""))
	assert.Error(t, s.RegisterAll(5, "not a cron"))
	assert.NoError(t, s.RegisterAll(5, "0 0 * * * *"))
}
