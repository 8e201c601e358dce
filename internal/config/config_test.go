package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/planner"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "file", cfg.Feed.Source)
	assert.Equal(t, 5, cfg.Schedule.PollSeconds)
	assert.Equal(t, 1.80, cfg.Engine.RecoveryTarget)
	assert.True(t, cfg.Schedule.CheckpointEveryRound)
	assert.Equal(t, string(model.ProfileModerado), cfg.Session.Profile)

	eng := cfg.EngineConfig()
	assert.Equal(t, 10, eng.MinHistory)
	assert.Equal(t, planner.BettingThreshold, eng.BettingThreshold)
	assert.Equal(t, planner.BaselineSession, eng.Planner.Baseline)
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
feed:
  source: http
  url: http://localhost:9000/rounds
  timezone: America/Sao_Paulo
session:
  bankroll: 250
  base_bet: 5
  profile: Elite
  tactic_weights:
    market_heat: 40
engine:
  max_blue_streak_stop: 6
  baseline: origin
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("AVIATOR_BASE_BET", "7.5")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http", cfg.Feed.Source)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
	assert.Equal(t, 7.5, cfg.Session.BaseBet)

	p := cfg.StartParams()
	assert.Equal(t, "250", p.Bankroll.String())
	assert.Equal(t, model.ProfileElite, p.Profile)
	assert.Equal(t, 40.0, p.TacticWeights["market_heat"])

	eng := cfg.EngineConfig()
	assert.Equal(t, 6, eng.MaxBlueStreakStop)
	assert.Equal(t, planner.BaselineOrigin, eng.Planner.Baseline)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"telegram half configured", func(c *Config) { c.Telegram.BotToken = "x" }},
		{"unknown source", func(c *Config) { c.Feed.Source = "kafka" }},
		{"http without url", func(c *Config) { c.Feed.Source = "http"; c.Feed.URL = "" }},
		{"bad timezone", func(c *Config) { c.Feed.Timezone = "Mars/Olympus" }},
		{"base bet above max", func(c *Config) { c.Session.BaseBet = 701 }},
		{"stop loss above 100", func(c *Config) { c.Session.StopLossPct = 120 }},
		{"unknown profile", func(c *Config) { c.Session.Profile = "Turbo" }},
		{"unknown baseline", func(c *Config) { c.Engine.Baseline = "peak" }},
		{"recovery target below range", func(c *Config) { c.Engine.RecoveryTarget = 1.5 }},
		{"recovery target above range", func(c *Config) { c.Engine.RecoveryTarget = 2.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
