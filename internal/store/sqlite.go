package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/fooddir/internal/core"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLite stores locations in a single SQLite file.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer only; also keeps a :memory: database on a single connection.
	conn.SetMaxOpenConns(1)

	s := &SQLite{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS locations (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL UNIQUE,
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			zip TEXT NOT NULL,
			county TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			services_json TEXT NOT NULL DEFAULT '[]',
			languages_json TEXT NOT NULL DEFAULT '[]',
			hours_json TEXT NOT NULL DEFAULT 'null',
			hours_note TEXT NOT NULL DEFAULT '',
			eligibility TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			lat REAL,
			lng REAL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_locations_county ON locations(county)`,
	}

	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", strings.TrimSpace(m[:40]), err)
		}
	}
	return nil
}

// classify wraps connection-level failures as unavailable.
func (s *SQLite) classify(op string, err error) error {
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return unavailable(op, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %v", op, err)
}

func (s *SQLite) FindByTitle(ctx context.Context, title string) (string, bool, error) {
	var id string
	err := s.conn.QueryRowContext(ctx, `SELECT id FROM locations WHERE title = ?`, title).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, s.classify("find location", err)
	}
	return id, true, nil
}

func (s *SQLite) Create(ctx context.Context, rec *core.LocationRecord) (string, error) {
	services, err := encodeJSON(nonNil(rec.Services))
	if err != nil {
		return "", fmt.Errorf("encode services: %w", err)
	}
	languages, err := encodeJSON(nonNil(rec.Languages))
	if err != nil {
		return "", fmt.Errorf("encode languages: %w", err)
	}
	hours, err := encodeJSON(rec.Hours)
	if err != nil {
		return "", fmt.Errorf("encode hours: %w", err)
	}

	var lat, lng sql.NullFloat64
	if c := rec.Coordinates; c != nil {
		lat = sql.NullFloat64{Float64: c.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: c.Lng, Valid: true}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	id := uuid.NewString()
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO locations (id, title, street, city, state, zip, county, phone, website,
			services_json, languages_json, hours_json, hours_note, eligibility, notes, lat, lng, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Title, rec.Address.Street, rec.Address.City, rec.Address.State, rec.Address.ZIP,
		rec.Address.County, rec.Phone, rec.Website, services, languages, hours, rec.HoursNote,
		rec.Eligibility, rec.Notes, lat, lng, createdAt.UTC(),
	)
	if err != nil {
		return "", s.classify("insert location", err)
	}
	return id, nil
}

func (s *SQLite) List(ctx context.Context, county string) ([]core.LocationRecord, error) {
	query := `SELECT id, title, street, city, state, zip, county, phone, website,
		services_json, languages_json, hours_json, hours_note, eligibility, notes, lat, lng, created_at
		FROM locations`
	var args []any
	if county != "" {
		query += ` WHERE county = ?`
		args = append(args, county)
	}
	query += ` ORDER BY title`

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.classify("list locations", err)
	}
	defer rows.Close()

	out := []core.LocationRecord{}
	for rows.Next() {
		var (
			r                          core.LocationRecord
			services, languages, hours string
			lat, lng                   sql.NullFloat64
		)
		if err := rows.Scan(
			&r.ID, &r.Title, &r.Address.Street, &r.Address.City, &r.Address.State, &r.Address.ZIP,
			&r.Address.County, &r.Phone, &r.Website, &services, &languages, &hours, &r.HoursNote,
			&r.Eligibility, &r.Notes, &lat, &lng, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		if err := decodeJSON(services, &r.Services); err != nil {
			return nil, fmt.Errorf("decode services for %s: %w", r.ID, err)
		}
		if err := decodeJSON(languages, &r.Languages); err != nil {
			return nil, fmt.Errorf("decode languages for %s: %w", r.ID, err)
		}
		if err := decodeJSON(hours, &r.Hours); err != nil {
			return nil, fmt.Errorf("decode hours for %s: %w", r.ID, err)
		}
		r.Services = nonNil(r.Services)
		r.Languages = nonNil(r.Languages)
		if lat.Valid && lng.Valid {
			r.Coordinates = &core.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify("list locations", err)
	}
	return out, nil
}

func (s *SQLite) SetCoordinates(ctx context.Context, id string, c core.Coordinates) error {
	res, err := s.conn.ExecContext(ctx, `UPDATE locations SET lat = ?, lng = ? WHERE id = ?`, c.Lat, c.Lng, id)
	if err != nil {
		return s.classify("update coordinates", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("location %s not found", id)
	}
	return nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return 0, s.classify("count locations", err)
	}
	return n, nil
}
