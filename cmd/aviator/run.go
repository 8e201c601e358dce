package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"AviatorAdvisor/internal/config"
	"AviatorAdvisor/internal/feed"
	"AviatorAdvisor/internal/notifier"
	"AviatorAdvisor/internal/recorder"
	"AviatorAdvisor/internal/scheduler"
	"AviatorAdvisor/internal/session"
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll the round feed and advise on every round",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}
}

func run(cfg *config.Config) error {
	log.Info().Msg("aviator advisor starting")

	var fetcher feed.Fetcher
	switch cfg.Feed.Source {
	case "http":
		fetcher = feed.NewHTTPFetcher(cfg.Feed.URL, cfg.Feed.APIKey, cfg.Proxy, cfg.Location())
	default:
		fetcher = feed.NewFileFetcher(cfg.Feed.Path, cfg.Location())
	}
	log.Info().Str("source", fetcher.Name()).Msg("feed configured")
	col := feed.NewCollector(fetcher)

	var sender notifier.Sender = notifier.NopSender{}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := session.New(cfg.EngineConfig(), session.WithLogger(engineLogger()))
	sched := scheduler.NewScheduler(ctx, col, eng, sender, rec)
	sched.Params = cfg.StartParams()
	if cfg.Schedule.CheckpointEveryRound {
		sched.StateFile = cfg.Session.StateFile
	}
	if err := sched.Restore(); err != nil {
		return err
	}
	switch {
	case !cfg.Session.AutoStart || eng.Snapshot().IsActive:
	case eng.View().Status.Terminal():
		log.Warn().Str("status", string(eng.View().Status)).Msg("restored session has ended, auto start skipped")
	default:
		if err := eng.Start(sched.Params, time.Now()); err != nil {
			return err
		}
		log.Info().Msg("session auto-started")
	}

	if err := sched.RegisterAll(cfg.Schedule.PollSeconds, cfg.Schedule.ReportCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	log.Info().Msg("aviator advisor is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	return nil
}
