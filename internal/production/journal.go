package production

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/primitives"
)

//go:embed schema.sql
var schemaSQL string

// JournalEntry is one stored evaluation.
type JournalEntry struct {
	ID string `json:"id" yaml:"id"`
	core.EvaluationRecord `yaml:",inline"`
}

// Journal is an append-only SQLite log of evaluation records. It is a diagnostic
// trace; entries are never read back into a machine.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenJournal creates or opens the journal database at path.
//
// The database is configured with WAL mode, NORMAL synchronous mode and a
// 5-second busy timeout. A nil logger means slog.Default().
func OpenJournal(path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db, logger: logger}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append stores rec and returns the generated entry ID.
func (j *Journal) Append(ctx context.Context, rec core.EvaluationRecord) (string, error) {
	before, err := json.Marshal(rec.Before)
	if err != nil {
		return "", fmt.Errorf("marshal before path: %w", err)
	}
	after, err := json.Marshal(rec.After)
	if err != nil {
		return "", fmt.Errorf("marshal after path: %w", err)
	}
	transitions, err := json.Marshal(rec.Transitions)
	if err != nil {
		return "", fmt.Errorf("marshal transitions: %w", err)
	}
	results, err := encodeResults(rec.Results)
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}

	id := uuid.NewString()
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO evaluations
			(id, machine_id, event, before_path, after_path, transitions, results, error, version, recorded_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.MachineID, rec.Event, string(before), string(after), string(transitions), string(results),
		rec.Err, rec.Version, rec.Timestamp.UnixNano(), int64(rec.Duration),
	)
	if err != nil {
		return "", fmt.Errorf("insert evaluation: %w", err)
	}
	return id, nil
}

// encodeResults marshals rs. Values without a JSON form (funcs, channels, cyclic
// structures) are stored as their fmt.Sprint text so the row is still written.
func encodeResults(rs primitives.Results) ([]byte, error) {
	if data, err := json.Marshal(rs); err == nil {
		return data, nil
	}
	printable := make(primitives.Results, len(rs))
	for i, r := range rs {
		if _, err := json.Marshal(r.Value); err != nil {
			r.Value = fmt.Sprint(r.Value)
		}
		printable[i] = r
	}
	return json.Marshal(printable)
}

// OnTransition is a no-op; transitions are stored with their evaluation.
func (j *Journal) OnTransition(context.Context, core.TransitionRecord) {}

// OnEvaluated appends rec. Failures are logged rather than surfaced to the machine.
func (j *Journal) OnEvaluated(ctx context.Context, rec core.EvaluationRecord) {
	if _, err := j.Append(ctx, rec); err != nil {
		j.logger.Error("journal append failed", "machine", rec.MachineID, "event", rec.Event, "error", err)
	}
}

// Recent returns up to limit entries, newest first. An empty machineID returns
// entries of every machine.
func (j *Journal) Recent(ctx context.Context, machineID string, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, machine_id, event, before_path, after_path, transitions, results, error, version, recorded_at, duration_ns
		FROM evaluations`
	args := []any{}
	if machineID != "" {
		query += ` WHERE machine_id = ?`
		args = append(args, machineID)
	}
	query += ` ORDER BY rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var (
			e                                   JournalEntry
			before, after, transitions, results string
			recordedAt, durationNS              int64
		)
		if err := rows.Scan(&e.ID, &e.MachineID, &e.Event, &before, &after, &transitions, &results,
			&e.Err, &e.Version, &recordedAt, &durationNS); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		if err := json.Unmarshal([]byte(before), &e.Before); err != nil {
			return nil, fmt.Errorf("unmarshal before path: %w", err)
		}
		if err := json.Unmarshal([]byte(after), &e.After); err != nil {
			return nil, fmt.Errorf("unmarshal after path: %w", err)
		}
		if err := json.Unmarshal([]byte(transitions), &e.Transitions); err != nil {
			return nil, fmt.Errorf("unmarshal transitions: %w", err)
		}
		if err := json.Unmarshal([]byte(results), &e.Results); err != nil {
			return nil, fmt.Errorf("unmarshal results: %w", err)
		}
		e.Timestamp = time.Unix(0, recordedAt)
		e.Duration = time.Duration(durationNS)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return entries, nil
}
