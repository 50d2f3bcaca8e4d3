package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"StructSentinel/internal/model"
)

// SQLiteStore persists signals to a SQLite database through sqlx.
type SQLiteStore struct {
	db *sqlx.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the watcher and janitor can read while a write is in flight.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite signal store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id             TEXT PRIMARY KEY,
			symbol         TEXT NOT NULL,
			direction      TEXT NOT NULL,
			entry_price    REAL NOT NULL,
			take_profit    REAL NOT NULL,
			stop_loss      REAL NOT NULL,
			state          TEXT NOT NULL,
			reason         TEXT,
			trace_id       TEXT,
			created_at     TIMESTAMP NOT NULL,
			entry_deadline TIMESTAMP NOT NULL,
			trade_deadline TIMESTAMP NOT NULL,
			updated_at     TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_state ON signals(state)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol, state)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, sig *model.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.NamedExecContext(ctx, `INSERT INTO signals
		(id, symbol, direction, entry_price, take_profit, stop_loss,
		 state, reason, trace_id, created_at, entry_deadline, trade_deadline, updated_at)
		VALUES (:id, :symbol, :direction, :entry_price, :take_profit, :stop_loss,
		 :state, :reason, :trace_id, :created_at, :entry_deadline, :trade_deadline, :updated_at)`, sig)
	if err != nil {
		return fmt.Errorf("insert signal %s: %w", sig.ID, err)
	}
	return nil
}

func (s *SQLiteStore) FindByStates(ctx context.Context, states ...model.SignalState) ([]model.Signal, error) {
	query, args, err := sqlx.In(
		`SELECT * FROM signals WHERE state IN (?) ORDER BY created_at`, stateStrings(states))
	if err != nil {
		return nil, fmt.Errorf("build state query: %w", err)
	}
	var signals []model.Signal
	if err := s.db.SelectContext(ctx, &signals, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select by states: %w", err)
	}
	return signals, nil
}

func (s *SQLiteStore) FindBySymbolInStates(ctx context.Context, symbol string, states ...model.SignalState) ([]model.Signal, error) {
	query, args, err := sqlx.In(
		`SELECT * FROM signals WHERE symbol = ? AND state IN (?) ORDER BY created_at`, symbol, stateStrings(states))
	if err != nil {
		return nil, fmt.Errorf("build symbol query: %w", err)
	}
	var signals []model.Signal
	if err := s.db.SelectContext(ctx, &signals, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select by symbol: %w", err)
	}
	return signals, nil
}

// CompareAndSetState performs the conditional write that every transition
// rides on: UPDATE ... WHERE id = ? AND state = <expected>. Zero affected
// rows means another worker already advanced the signal.
func (s *SQLiteStore) CompareAndSetState(ctx context.Context, id string, from, to model.SignalState, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE signals SET state = ?, reason = ?, updated_at = ? WHERE id = ? AND state = ?`,
		string(to), reason, time.Now().UTC(), id, string(from))
	if err != nil {
		return false, fmt.Errorf("conditional update %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected %s: %w", id, err)
	}
	return n == 1, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite signal store")
	return s.db.Close()
}

func stateStrings(states []model.SignalState) []string {
	out := make([]string, len(states))
	for i, st := range states {
		out[i] = string(st)
	}
	return out
}
