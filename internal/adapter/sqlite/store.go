// Package sqlite persists completed assessments in a single SQLite file.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id            TEXT PRIMARY KEY,
	query_date    TEXT NOT NULL,
	risk_level    TEXT NOT NULL,
	methane_level TEXT NOT NULL,
	assessed_at   INTEGER NOT NULL,
	payload       BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_assessed_at ON assessments (assessed_at DESC);
`

// Store is an assessment history backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save stores a, replacing any row with the same ID.
func (s *Store) Save(ctx context.Context, a domain.Assessment) error {
	payload, err := encode(a)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO assessments (id, query_date, risk_level, methane_level, assessed_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.Date.Format(domain.QueryDateLayout),
		string(a.Verdict.Risk),
		string(a.Verdict.MethaneLevel),
		a.AssessedAt.UnixNano(),
		payload,
	)
	if err != nil {
		return fmt.Errorf("save assessment %s: %w", a.ID, err)
	}
	return nil
}

// Get returns the assessment with id or domain.ErrAssessmentNotFound.
func (s *Store) Get(ctx context.Context, id string) (domain.Assessment, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM assessments WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assessment{}, fmt.Errorf("%s: %w", id, domain.ErrAssessmentNotFound)
	}
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("get assessment %s: %w", id, err)
	}
	return decode(payload)
}

// Recent returns up to limit assessments, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.Assessment, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM assessments ORDER BY assessed_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assessment
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a, err := decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByRisk returns the number of stored assessments per risk level.
func (s *Store) CountByRisk(ctx context.Context) (map[domain.RiskLevel]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT risk_level, COUNT(*) FROM assessments GROUP BY risk_level`)
	if err != nil {
		return nil, fmt.Errorf("count assessments: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.RiskLevel]int)
	for rows.Next() {
		var (
			level string
			n     int
		)
		if err := rows.Scan(&level, &n); err != nil {
			return nil, fmt.Errorf("scan risk count: %w", err)
		}
		counts[domain.RiskLevel(level)] = n
	}
	return counts, rows.Err()
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func encode(a domain.Assessment) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("encode assessment %s: %w", a.ID, err)
	}
	return buf.Bytes(), nil
}

func decode(payload []byte) (domain.Assessment, error) {
	var a domain.Assessment
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&a); err != nil {
		return domain.Assessment{}, fmt.Errorf("decode assessment: %w", err)
	}
	a.Date = a.Date.UTC()
	a.AssessedAt = a.AssessedAt.UTC()
	return a, nil
}
