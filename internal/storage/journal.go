// Package storage provides the SQLite-backed mutation journal, an audit
// history of vocabulary edits.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brandpulse/triage/internal/model"
	"github.com/google/uuid"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Op identifies the kind of vocabulary mutation recorded in the journal.
type Op string

// Journal operations.
const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpMove   Op = "move"
	OpImport Op = "import"
	OpResync Op = "resync"
)

// Entry is one recorded vocabulary mutation.
type Entry struct {
	CreatedAt time.Time
	ID        string
	Op        Op
	Category  model.CategoryTag
	Word      string
	Weight    *float64
}

// Journal records vocabulary mutations in SQLite. It is an audit trail,
// not the store of record: writes are best-effort and a journal failure
// never blocks a vocabulary mutation.
type Journal struct {
	db     *sql.DB
	dbPath string
}

// NewJournal opens (or creates) the journal database and applies
// migrations.
func NewJournal(ctx context.Context, dbPath string) (*Journal, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("journal path cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	j := &Journal{db: db, dbPath: dbPath}
	if err := j.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return j, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one mutation to the journal. The entry ID and timestamp
// are assigned here.
func (j *Journal) Record(ctx context.Context, op Op, category model.CategoryTag, word string, weight *float64) (Entry, error) {
	e := Entry{
		ID:        uuid.NewString(),
		Op:        op,
		Category:  category,
		Word:      word,
		Weight:    weight,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO mutations (id, op, category, word, weight, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	var weight64 sql.NullFloat64
	if e.Weight != nil {
		weight64 = sql.NullFloat64{Float64: *e.Weight, Valid: true}
	}

	if _, err := j.db.ExecContext(ctx, query,
		e.ID, string(e.Op), string(e.Category), e.Word, weight64, e.CreatedAt,
	); err != nil {
		return Entry{}, fmt.Errorf("failed to record mutation: %w", err)
	}
	return e, nil
}

// History returns the most recent mutations, newest first.
func (j *Journal) History(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, op, category, word, weight, created_at
		FROM mutations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mutations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var op, category string
		var weight sql.NullFloat64
		if err := rows.Scan(&e.ID, &op, &category, &e.Word, &weight, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mutation: %w", err)
		}
		e.Op = Op(op)
		e.Category = model.CategoryTag(category)
		if weight.Valid {
			w := weight.Float64
			e.Weight = &w
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mutations: %w", err)
	}
	return entries, nil
}
