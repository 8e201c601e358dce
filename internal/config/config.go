package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"AviatorAdvisor/internal/bankroll"
	"AviatorAdvisor/internal/logging"
	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/planner"
	"AviatorAdvisor/internal/session"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Feed struct {
		Source   string `yaml:"source"` // "file" or "http"
		Path     string `yaml:"path"`
		URL      string `yaml:"url"`
		APIKey   string `yaml:"api_key"`
		Timezone string `yaml:"timezone"`
	} `yaml:"feed"`
	Schedule struct {
		PollSeconds          int    `yaml:"poll_seconds"`
		ReportCron           string `yaml:"report_cron"`
		CheckpointEveryRound bool   `yaml:"checkpoint_every_round"`
	} `yaml:"schedule"`
	Session struct {
		Bankroll          float64            `yaml:"bankroll"`
		BaseBet           float64            `yaml:"base_bet"`
		StopWinPct        float64            `yaml:"stop_win_pct"`
		StopLossPct       float64            `yaml:"stop_loss_pct"`
		PinkHuntMaxLosses int                `yaml:"pink_hunt_max_losses"`
		Profile           string             `yaml:"profile"`
		TacticWeights     map[string]float64 `yaml:"tactic_weights"`
		AutoStart         bool               `yaml:"auto_start"`
		StateFile         string             `yaml:"state_file"`
	} `yaml:"session"`
	Engine struct {
		MinHistory           int     `yaml:"min_history"`
		HistoryLimit         int     `yaml:"history_limit"`
		BettingThreshold     float64 `yaml:"betting_threshold"`
		MaxBlueStreakStop    int     `yaml:"max_blue_streak_stop"`
		StrategicPauseLosses int     `yaml:"strategic_pause_losses"`
		StrategicPauseRounds int     `yaml:"strategic_pause_rounds"`
		SmartMode            bool    `yaml:"smart_mode"`
		SmartConfirmRounds   int     `yaml:"smart_confirm_rounds"`
		RecoveryTarget       float64 `yaml:"recovery_target"`
		DualStrategy         bool    `yaml:"dual_strategy"`
		Baseline             string  `yaml:"baseline"` // "session" or "origin"
		CautionMultiplier    float64 `yaml:"caution_multiplier"`
		CautionRounds        int     `yaml:"caution_rounds"`
		SpikeTarget          float64 `yaml:"spike_target"`
	} `yaml:"engine"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log   logging.LogConfig `yaml:"log"`
	Proxy string            `yaml:"proxy"`
}

// Load reads .env and the YAML file, then applies environment overrides and
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Log: logging.DefaultLogConfig()}
	cfg.Schedule.CheckpointEveryRound = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("AVIATOR_FEED_URL"); v != "" {
		cfg.Feed.URL = v
		if cfg.Feed.Source == "" {
			cfg.Feed.Source = "http"
		}
	}
	if v := os.Getenv("AVIATOR_FEED_API_KEY"); v != "" {
		cfg.Feed.APIKey = v
	}
	if v := os.Getenv("AVIATOR_FEED_PATH"); v != "" {
		cfg.Feed.Path = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("AVIATOR_BANKROLL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Session.Bankroll = f
		}
	}
	if v := os.Getenv("AVIATOR_BASE_BET"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Session.BaseBet = f
		}
	}
	if v := os.Getenv("AVIATOR_PROFILE"); v != "" {
		cfg.Session.Profile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	eng := session.DefaultConfig()

	if cfg.Feed.Source == "" {
		cfg.Feed.Source = "file"
	}
	if cfg.Feed.Path == "" {
		cfg.Feed.Path = "data/rounds.jsonl"
	}
	if cfg.Feed.Timezone == "" {
		cfg.Feed.Timezone = "UTC"
	}
	if cfg.Schedule.PollSeconds == 0 {
		cfg.Schedule.PollSeconds = 5
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 0 * * * *"
	}
	if cfg.Session.Bankroll == 0 {
		cfg.Session.Bankroll = 100
	}
	if cfg.Session.BaseBet == 0 {
		cfg.Session.BaseBet = 2
	}
	if cfg.Session.StopWinPct == 0 {
		cfg.Session.StopWinPct = 20
	}
	if cfg.Session.StopLossPct == 0 {
		cfg.Session.StopLossPct = 30
	}
	if cfg.Session.Profile == "" {
		cfg.Session.Profile = string(model.ProfileModerado)
	}
	if cfg.Session.StateFile == "" {
		cfg.Session.StateFile = "data/session_state.json"
	}
	if cfg.Engine.MinHistory == 0 {
		cfg.Engine.MinHistory = eng.MinHistory
	}
	if cfg.Engine.HistoryLimit == 0 {
		cfg.Engine.HistoryLimit = eng.HistoryLimit
	}
	if cfg.Engine.BettingThreshold == 0 {
		cfg.Engine.BettingThreshold = eng.BettingThreshold
	}
	if cfg.Engine.StrategicPauseRounds == 0 {
		cfg.Engine.StrategicPauseRounds = eng.StrategicPauseRounds
	}
	if cfg.Engine.SmartConfirmRounds == 0 {
		cfg.Engine.SmartConfirmRounds = eng.SmartConfirmRounds
	}
	if cfg.Engine.RecoveryTarget == 0 {
		cfg.Engine.RecoveryTarget = eng.Planner.RecoveryTarget
	}
	if cfg.Engine.Baseline == "" {
		cfg.Engine.Baseline = string(eng.Planner.Baseline)
	}
	if cfg.Engine.CautionMultiplier == 0 {
		cfg.Engine.CautionMultiplier = eng.Planner.CautionMultiplier
	}
	if cfg.Engine.CautionRounds == 0 {
		cfg.Engine.CautionRounds = eng.Planner.CautionRounds
	}
	if cfg.Engine.SpikeTarget == 0 {
		cfg.Engine.SpikeTarget = eng.Planner.SpikeTarget
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/aviator.db"
	}
}

// Validate checks the settings the engine cannot run without. Telegram is
// optional; both fields must be set together.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.Feed.Source {
	case "file":
		if c.Feed.Path == "" {
			return fmt.Errorf("feed.path is required for the file source")
		}
	case "http":
		if c.Feed.URL == "" {
			return fmt.Errorf("feed.url is required for the http source")
		}
	default:
		return fmt.Errorf("feed.source must be file or http, got %q", c.Feed.Source)
	}
	if _, err := time.LoadLocation(c.Feed.Timezone); err != nil {
		return fmt.Errorf("feed.timezone: %w", err)
	}
	if c.Schedule.PollSeconds < 1 {
		return fmt.Errorf("schedule.poll_seconds must be positive")
	}
	if c.Session.Bankroll <= 0 {
		return fmt.Errorf("session.bankroll must be positive")
	}
	if c.Session.BaseBet < planner.MinBet || c.Session.BaseBet > planner.MaxBet {
		return fmt.Errorf("session.base_bet must be within [%.0f, %.0f]", planner.MinBet, planner.MaxBet)
	}
	if c.Session.StopLossPct <= 0 || c.Session.StopLossPct > 100 {
		return fmt.Errorf("session.stop_loss_pct must be in (0, 100]")
	}
	if !model.ProfileMode(c.Session.Profile).Valid() {
		return fmt.Errorf("session.profile %q is not a known profile", c.Session.Profile)
	}
	if c.Engine.Baseline != string(planner.BaselineSession) && c.Engine.Baseline != string(planner.BaselineOrigin) {
		return fmt.Errorf("engine.baseline must be session or origin")
	}
	if c.Engine.RecoveryTarget < planner.MinRecoveryTarget || c.Engine.RecoveryTarget > planner.MaxRecoveryTarget {
		return fmt.Errorf("engine.recovery_target must be within [%.2f, %.2f]", planner.MinRecoveryTarget, planner.MaxRecoveryTarget)
	}
	if c.Engine.BettingThreshold < 0 || c.Engine.BettingThreshold > 100 {
		return fmt.Errorf("engine.betting_threshold must be within [0, 100]")
	}
	return nil
}

// Location returns the feed timezone. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Feed.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EngineConfig maps the engine section onto the lifecycle settings.
func (c *Config) EngineConfig() session.Config {
	e := c.Engine
	return session.Config{
		MinHistory:           e.MinHistory,
		HistoryLimit:         e.HistoryLimit,
		BettingThreshold:     e.BettingThreshold,
		MaxBlueStreakStop:    e.MaxBlueStreakStop,
		StrategicPauseLosses: e.StrategicPauseLosses,
		StrategicPauseRounds: e.StrategicPauseRounds,
		SmartMode:            e.SmartMode,
		SmartConfirmRounds:   e.SmartConfirmRounds,
		Planner: planner.Params{
			RecoveryTarget:    e.RecoveryTarget,
			DualStrategy:      e.DualStrategy,
			Baseline:          planner.BaselineMode(e.Baseline),
			CautionMultiplier: e.CautionMultiplier,
			CautionRounds:     e.CautionRounds,
			SpikeTarget:       e.SpikeTarget,
		},
	}
}

// StartParams maps the session section onto new-session parameters.
func (c *Config) StartParams() bankroll.StartParams {
	s := c.Session
	return bankroll.StartParams{
		Bankroll:          decimal.NewFromFloat(s.Bankroll),
		BaseBet:           decimal.NewFromFloat(s.BaseBet),
		StopWinPct:        s.StopWinPct,
		StopLossPct:       s.StopLossPct,
		PinkHuntMaxLosses: s.PinkHuntMaxLosses,
		TacticWeights:     s.TacticWeights,
		Profile:           model.ProfileMode(s.Profile),
	}
}
