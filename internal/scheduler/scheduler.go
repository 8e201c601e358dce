package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"AviatorAdvisor/internal/bankroll"
	"AviatorAdvisor/internal/feed"
	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/notifier"
	"AviatorAdvisor/internal/recorder"
	"AviatorAdvisor/internal/session"
)

// Scheduler polls the feed on a cron schedule and drives the engine with it.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *feed.Collector
	Engine    *session.Engine
	Notifier  notifier.Sender
	Recorder  recorder.Recorder
	Ctx       context.Context

	// Params start new sessions from /start.
	Params bankroll.StartParams
	// StateFile, when set, receives a checkpoint after every settled round.
	StateFile string

	mu         sync.Mutex
	lastStatus model.Status
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *feed.Collector, eng *session.Engine, n notifier.Sender, rec recorder.Recorder) *Scheduler {
	if n == nil {
		n = notifier.NopSender{}
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		Collector: col,
		Engine:    eng,
		Notifier:  n,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the feed poll and the periodic report.
func (s *Scheduler) RegisterAll(pollSeconds int, reportCron string) error {
	if pollSeconds < 1 {
		return fmt.Errorf("poll interval must be positive, got %d", pollSeconds)
	}
	if _, err := s.Cron.AddFunc(fmt.Sprintf("@every %ds", pollSeconds), s.poll); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	if reportCron != "" {
		if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
			return fmt.Errorf("register report task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// Restore resumes the session persisted in StateFile, if any, and makes the
// collector skip rounds that were already settled.
func (s *Scheduler) Restore() error {
	if s.StateFile == "" {
		return nil
	}
	cp, err := bankroll.LoadState(s.StateFile)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if len(cp.Transactions) == 0 {
		return nil
	}
	if err := s.Engine.Restore(cp); err != nil {
		return err
	}
	last := cp.Transactions[len(cp.Transactions)-1].Timestamp
	for i := len(cp.Transactions) - 1; i >= 0; i-- {
		tx := cp.Transactions[i]
		if tx.Type == model.TxWin || tx.Type == model.TxLoss {
			last = tx.Timestamp
			break
		}
	}
	if s.Collector != nil {
		s.Collector.Resume(last)
	}
	snap := s.Engine.Snapshot()
	log.Info().Str("bankroll", snap.CurrentBankroll.String()).Time("resume_after", last).Msg("session restored")
	return nil
}

// PollNow runs one feed poll immediately.
func (s *Scheduler) PollNow() {
	s.poll()
}

func (s *Scheduler) poll() {
	batch, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("collect rounds")
		return
	}
	for _, obs := range batch {
		if _, err := s.Process(obs); err != nil {
			log.Error().Err(err).Float64("multiplier", obs.Round.Multiplier).Time("at", obs.Round.Timestamp).Msg("process round")
		}
	}
}

// Process feeds one observation to the engine, then records, notifies and
// checkpoints whatever it produced.
func (s *Scheduler) Process(obs feed.Observation) (session.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step, err := s.Engine.OnRound(obs.Round, obs.Signals)
	if err != nil {
		return step, err
	}

	if step.Transaction != nil {
		if err := s.Recorder.RecordTransaction(step.Transaction); err != nil {
			log.Error().Err(err).Msg("record transaction")
		}
	}
	if step.History != nil {
		if err := s.Recorder.RecordHistory(step.History); err != nil {
			log.Error().Err(err).Msg("record history")
		}
	}
	if evt := step.Events.ProfileChange; evt != nil {
		if err := s.Recorder.RecordProfileChange(evt); err != nil {
			log.Error().Err(err).Msg("record profile change")
		}
		s.trySend(notifier.FormatProfileChange(evt))
	}
	if evt := step.Events.SessionEnd; evt != nil {
		if err := s.Recorder.RecordSessionEnd(evt); err != nil {
			log.Error().Err(err).Msg("record session end")
		}
		s.trySend(notifier.FormatSessionEnd(evt))
	} else if step.Status.Wagering() || step.Status != s.lastStatus {
		s.trySend(notifier.FormatStep(step))
	}
	s.lastStatus = step.Status

	if step.Transaction != nil || step.Events.SessionEnd != nil {
		s.checkpoint()
	}
	return step, nil
}

func (s *Scheduler) reportTask() {
	summary, err := s.Recorder.Summary()
	if err != nil {
		log.Error().Err(err).Msg("read summary")
		return
	}
	s.trySend(notifier.FormatSummary(summary, s.Engine.View()))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	now := time.Now()

	switch fields[0] {
	case "/status":
		return notifier.FormatStatus(s.Engine.View())
	case "/start":
		if err := s.Engine.Start(s.Params, now); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		s.recordFirstTransaction()
		s.checkpoint()
		return notifier.FormatStatus(s.Engine.View())
	case "/stop":
		s.Engine.Stop()
		s.checkpoint()
		return "⏹ Session stopped"
	case "/reset":
		s.Engine.Reset()
		s.checkpoint()
		return "🔁 Session reset, /start to begin again"
	case "/continue":
		if err := s.Engine.Continue(now); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		s.recordFirstTransaction()
		s.checkpoint()
		return notifier.FormatStatus(s.Engine.View())
	case "/correct":
		if len(fields) < 2 {
			return "Usage: /correct <amount> [note]"
		}
		amount, err := decimal.NewFromString(fields[1])
		if err != nil {
			return fmt.Sprintf("❌ invalid amount %q", fields[1])
		}
		tx, err := s.Engine.Correct(amount, strings.Join(fields[2:], " "), now)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		if err := s.Recorder.RecordTransaction(&tx); err != nil {
			log.Error().Err(err).Msg("record correction")
		}
		s.checkpoint()
		return "✏️ Balance now " + tx.ResultingBalance.StringFixed(2)
	case "/report":
		summary, err := s.Recorder.Summary()
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatSummary(summary, s.Engine.View())
	case "/ledger":
		txs := s.Engine.Transactions()
		n := 10
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil && v > 0 {
				n = v
			}
		}
		if len(txs) > n {
			txs = txs[len(txs)-n:]
		}
		var b strings.Builder
		for _, tx := range txs {
			b.WriteString(fmt.Sprintf("%s %s %s → %s\n", tx.Timestamp.Format("15:04:05"), tx.Type, tx.Amount.StringFixed(2), tx.ResultingBalance.StringFixed(2)))
		}
		if b.Len() == 0 {
			return "Ledger is empty"
		}
		return b.String()
	default:
		return helpText
	}
}

const helpText = "Commands:\n• /status\n• /start\n• /stop\n• /reset\n• /continue\n• /correct &lt;amount&gt; [note]\n• /report\n• /ledger [n]"

func (s *Scheduler) recordFirstTransaction() {
	txs := s.Engine.Transactions()
	if len(txs) == 0 {
		return
	}
	if err := s.Recorder.RecordTransaction(&txs[0]); err != nil {
		log.Error().Err(err).Msg("record start transaction")
	}
}

func (s *Scheduler) checkpoint() {
	if s.StateFile == "" {
		return
	}
	if err := bankroll.SaveState(s.StateFile, s.Engine.Checkpoint()); err != nil {
		log.Error().Err(err).Str("path", s.StateFile).Msg("save state")
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
