package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AviatorAdvisor/internal/config"
	"AviatorAdvisor/internal/feed"
	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/recorder"
)

func roundsFile(n int, mult float64) string {
	var b strings.Builder
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `{"multiplier": %.2f, "timestamp": %q, "signals": {"market": {"marketState": "HOT", "percentage": 100}}}`+"\n",
			mult, at.Add(time.Duration(i)*time.Minute).Format(time.RFC3339))
	}
	return b.String()
}

func defaultConfig(t *testing.T) *config.Config {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestReplayStopsAtStopWin(t *testing.T) {
	obs, err := feed.ReadAll(strings.NewReader(roundsFile(20, 3.0)), nil)
	require.NoError(t, err)

	res, err := replay(defaultConfig(t), obs, recorder.NewNoopRecorder(), false)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Rounds)
	assert.Equal(t, 4, res.Settled)
	assert.Equal(t, 4, res.Wins)
	assert.Equal(t, "100.00", res.Initial)
	assert.Equal(t, "120.00", res.Final)
	assert.Equal(t, model.StatusSessionWon, res.Status)
	assert.Equal(t, 1, res.Sessions)
	require.NotNil(t, res.LastSessionEnd)
	assert.Equal(t, model.OutcomeWin, res.LastSessionEnd.Type)
}

func TestReplayContinueChainsSessions(t *testing.T) {
	obs, err := feed.ReadAll(strings.NewReader(roundsFile(20, 3.0)), nil)
	require.NoError(t, err)

	res, err := replay(defaultConfig(t), obs, recorder.NewNoopRecorder(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Sessions, "both stop wins chain into a new session")
	assert.Equal(t, 9, res.Settled)
}

func TestReplayCommandPrintsSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rounds.jsonl")
	require.NoError(t, writeFile(path, roundsFile(12, 3.0)))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", filepath.Join(dir, "none.yaml"), "replay", path})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "rounds:   12 (settled 2: 2 won, 0 lost)")
	assert.Contains(t, out.String(), "bankroll: 100.00 -> 110.00")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
