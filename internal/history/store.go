// Package history persists finished analysis reports in SQLite so repeated
// analyses of the same page can be listed and compared over time.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seolens/seolens/internal/interfaces"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/utils"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound is returned when an analysis id does not exist.
var ErrNotFound = errors.New("analysis not found")

// Entry is one row of the history listing; the full report stays in the DB
// until fetched by id.
type Entry struct {
	ID           string               `json:"id"`
	URL          string               `json:"url"`
	CanonicalURL string               `json:"canonical_url"`
	Status       model.AnalysisStatus `json:"status"`
	Score        *int                 `json:"score"`
	ElapsedMS    int64                `json:"elapsed_ms"`
	CreatedAt    time.Time            `json:"created_at"`
}

type Store struct {
	db        *sql.DB
	logger    interfaces.Logger
	canonOpts utils.CanonicalizeOptions
}

// NewStore applies the schema and pragmas to db and returns a Store. canonOpts
// is the canonicalization policy that groups repeated analyses of the same
// page; rows saved under one policy should be listed under the same one.
func NewStore(db *sql.DB, logger interfaces.Logger, canonOpts utils.CanonicalizeOptions) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("history: db is nil")
	}
	if err := applySchema(db); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &Store{
		db:        db,
		logger:    logger.With(interfaces.Field{Key: "component", Value: "history"}),
		canonOpts: canonOpts,
	}, nil
}

// applySchema applies the SQLite schema to the database and sets appropriate pragmas.
func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on locked database
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Save persists a finished report. The canonical URL keys repeated analyses
// of the same page together for listing and comparison.
func (s *Store) Save(ctx context.Context, rep *model.AnalysisReport) error {
	if rep == nil {
		return fmt.Errorf("history: nil report")
	}

	canonical, err := utils.Canonicalize(rep.URL, s.canonOpts)
	if err != nil {
		// Keep the raw URL as the grouping key rather than refusing to save.
		canonical = rep.URL
	}

	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("history: marshal report: %w", err)
	}

	var score sql.NullInt64
	if rep.Score != nil {
		score = sql.NullInt64{Int64: int64(*rep.Score), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO analyses
		(id, url, canonical_url, status, score, elapsed_ms, created_at, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.URL, canonical, string(rep.Status), score,
		rep.Elapsed.Milliseconds(), rep.CreatedAt.Unix(), string(reportJSON))
	if err != nil {
		return fmt.Errorf("history: insert analysis: %w", err)
	}

	s.logger.Debug("saved analysis",
		interfaces.Field{Key: "id", Value: rep.ID},
		interfaces.Field{Key: "url", Value: canonical})
	return nil
}

// List returns recent entries, newest first, optionally filtered to one
// canonical URL. limit <= 0 means a default of 50.
func (s *Store) List(ctx context.Context, rawURL string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	q := `SELECT id, url, canonical_url, status, score, elapsed_ms, created_at FROM analyses`
	var rows *sql.Rows
	var err error
	if rawURL != "" {
		canonical, cerr := utils.Canonicalize(rawURL, s.canonOpts)
		if cerr != nil {
			canonical = rawURL
		}
		q += ` WHERE canonical_url = ? ORDER BY created_at DESC LIMIT ?`
		rows, err = s.db.QueryContext(ctx, q, canonical, limit)
	} else {
		q += ` ORDER BY created_at DESC LIMIT ?`
		rows, err = s.db.QueryContext(ctx, q, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var score sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.URL, &e.CanonicalURL, &e.Status, &score, &e.ElapsedMS, &createdAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if score.Valid {
			v := int(score.Int64)
			e.Score = &v
		}
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get loads one full report by id.
func (s *Store) Get(ctx context.Context, id string) (*model.AnalysisReport, error) {
	var reportJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT report_json FROM analyses WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: get %s: %w", id, err)
	}

	var rep model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &rep); err != nil {
		return nil, fmt.Errorf("history: decode report %s: %w", id, err)
	}
	return &rep, nil
}
