package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"AviatorAdvisor/internal/model"
)

// SQLiteRecorder persists history and events to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while the engine writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS round_history (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			multiplier       REAL,
			branch           TEXT,
			safety_amount    REAL,
			safety_target    REAL,
			profit_amount    REAL,
			profit_target    REAL,
			cautious         INTEGER,
			profit           TEXT,
			confidence_score REAL,
			reasoning        TEXT,
			status           TEXT,
			profile          TEXT,
			bankroll_after   TEXT,
			market_state     TEXT,
			pause_risk       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_ts ON round_history(timestamp)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id                TEXT PRIMARY KEY,
			timestamp         INTEGER NOT NULL,
			type              TEXT,
			amount            TEXT,
			resulting_balance TEXT,
			note              TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_ts ON transactions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS session_events (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			outcome        TEXT,
			profit_or_loss TEXT,
			next_best_time TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS profile_changes (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			from_profile TEXT,
			to_profile   TEXT,
			reason       TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordHistory(rec *model.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := rec.Plan
	ctx := rec.Context
	_, err := r.db.Exec(`INSERT INTO round_history
		(timestamp, multiplier, branch,
		 safety_amount, safety_target, profit_amount, profit_target, cautious,
		 profit, confidence_score, reasoning,
		 status, profile, bankroll_after, market_state, pause_risk)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ResultRound.Timestamp.Unix(), rec.ResultRound.Multiplier, string(p.Branch),
		p.Safety.Amount, p.Safety.TargetMultiplier, p.Profit.Amount, p.Profit.TargetMultiplier, p.Cautious,
		rec.Profit.StringFixed(2), rec.ConfidenceScore, rec.Reasoning,
		string(ctx.Status), string(ctx.Profile), ctx.BankrollAfter.StringFixed(2),
		string(ctx.MarketState), string(ctx.PauseRisk),
	)
	return err
}

func (r *SQLiteRecorder) RecordTransaction(tx *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR IGNORE INTO transactions
		(id, timestamp, type, amount, resulting_balance, note)
		VALUES (?,?,?,?,?,?)`,
		tx.ID, tx.Timestamp.Unix(), string(tx.Type),
		tx.Amount.StringFixed(2), tx.ResultingBalance.StringFixed(2), tx.Note,
	)
	return err
}

func (r *SQLiteRecorder) RecordSessionEnd(evt *model.SessionEndEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next sql.NullString
	if evt.NextBestTime != nil {
		next = sql.NullString{String: *evt.NextBestTime, Valid: true}
	}
	_, err := r.db.Exec(`INSERT INTO session_events
		(timestamp, outcome, profit_or_loss, next_best_time)
		VALUES (?,?,?,?)`,
		evt.At.Unix(), string(evt.Type), evt.ProfitOrLoss.StringFixed(2), next,
	)
	return err
}

func (r *SQLiteRecorder) RecordProfileChange(evt *model.ProfileChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO profile_changes
		(timestamp, from_profile, to_profile, reason)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), string(evt.From), string(evt.To), evt.Reason,
	)
	return err
}

// Summary reads back aggregate counts. Profit is summed as REAL, so it is
// approximate to the cent.
func (r *SQLiteRecorder) Summary() (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Summary
	var net sql.NullFloat64
	err := r.db.QueryRow(`SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN CAST(profit AS REAL) >= 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN CAST(profit AS REAL) < 0 THEN 1 ELSE 0 END), 0),
		SUM(CAST(profit AS REAL))
		FROM round_history`).Scan(&s.Rounds, &s.Wins, &s.Losses, &net)
	if err != nil {
		return Summary{}, fmt.Errorf("query history: %w", err)
	}
	s.NetProfit = net.Float64

	if err := r.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&s.Transactions); err != nil {
		return Summary{}, fmt.Errorf("query transactions: %w", err)
	}
	err = r.db.QueryRow(`SELECT
		COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0)
		FROM session_events`, string(model.OutcomeWin), string(model.OutcomeLoss)).Scan(&s.SessionsWon, &s.SessionsLost)
	if err != nil {
		return Summary{}, fmt.Errorf("query sessions: %w", err)
	}
	return s, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
