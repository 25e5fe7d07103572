// Package sqlstore implements usage.Store on database/sql. The sqlite and
// postgres packages open the connection and pick the dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/chatgate/pkg/usage"
)

// Dialect describes the SQL differences between backends.
type Dialect struct {
	// Name is used in error messages.
	Name string

	// Placeholder returns the bind parameter for the n-th argument (1-based).
	Placeholder func(n int) string

	// TimestampType is the column type for created_at.
	TimestampType string
}

// QuestionPlaceholder binds every argument as "?".
func QuestionPlaceholder(int) string { return "?" }

// DollarPlaceholder binds arguments as "$1", "$2", ...
func DollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

// Store implements usage.Store on a *sql.DB.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
}

// New creates the exchanges table if needed and returns a Store.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	s := &Store{DB: db, Dialect: dialect}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exchanges (
			id TEXT PRIMARY KEY,
			request_id TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			http_status INTEGER NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			prompt_tokens INTEGER NOT NULL DEFAULT 0,
			completion_tokens INTEGER NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at ` + s.Dialect.TimestampType + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS exchanges_created_at_idx ON exchanges (created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: creating schema: %w", s.Dialect.Name, err)
		}
	}
	return nil
}

func (s *Store) bind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.Dialect.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) Put(ctx context.Context, rec *usage.Record) error {
	if rec == nil {
		return usage.ErrNilRecord
	}

	query := s.bind(`INSERT INTO exchanges
		(id, request_id, language, outcome, http_status, model, prompt_tokens, completion_tokens, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.DB.ExecContext(ctx, query,
		rec.ID,
		rec.RequestID,
		rec.Language,
		rec.Outcome,
		rec.HTTPStatus,
		rec.Model,
		rec.PromptTokens,
		rec.CompletionTokens,
		rec.DurationMs,
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: inserting usage record: %w", s.Dialect.Name, err)
	}
	return nil
}

func (s *Store) Summary(ctx context.Context, since time.Time) (*usage.Summary, error) {
	query := s.bind(`SELECT outcome,
			COUNT(*),
			COALESCE(SUM(prompt_tokens), 0),
			COALESCE(SUM(completion_tokens), 0),
			CAST(COALESCE(AVG(duration_ms), 0) AS DOUBLE PRECISION)
		FROM exchanges
		WHERE created_at >= ?
		GROUP BY outcome
		ORDER BY outcome`)

	rows, err := s.DB.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: querying usage summary: %w", s.Dialect.Name, err)
	}
	defer rows.Close()

	summary := &usage.Summary{Since: since, Outcomes: []usage.OutcomeSummary{}}
	for rows.Next() {
		var o usage.OutcomeSummary
		if err := rows.Scan(&o.Outcome, &o.Count, &o.PromptTokens, &o.CompletionTokens, &o.AvgDurationMs); err != nil {
			return nil, fmt.Errorf("%s: scanning usage summary: %w", s.Dialect.Name, err)
		}
		summary.Outcomes = append(summary.Outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: reading usage summary: %w", s.Dialect.Name, err)
	}

	return summary, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
