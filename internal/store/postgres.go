package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/fooddir/internal/config"
	"github.com/JonMunkholm/fooddir/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL UNIQUE,
	street TEXT NOT NULL,
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	zip TEXT NOT NULL,
	county TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	services TEXT[] NOT NULL DEFAULT '{}',
	languages TEXT[] NOT NULL DEFAULT '{}',
	hours JSONB,
	hours_note TEXT NOT NULL DEFAULT '',
	eligibility TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	lat DOUBLE PRECISION,
	lng DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_locations_county ON locations(county);
`

// Postgres stores locations in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool using cfg, verifies it and applies the schema.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, unavailable("ping database", err)
	}

	p := NewPostgres(pool)
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgres wraps an existing pool. The caller applies the schema.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the locations table if needed.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// classifyPg wraps connection-level failures as unavailable.
func classifyPg(op string, err error) error {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || strings.Contains(err.Error(), "closed pool") {
		return unavailable(op, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %s (%s)", op, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%s: %v", op, err)
}

func (p *Postgres) FindByTitle(ctx context.Context, title string) (string, bool, error) {
	var id string
	err := p.pool.QueryRow(ctx, `SELECT id::text FROM locations WHERE title = $1`, title).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classifyPg("find location", err)
	}
	return id, true, nil
}

func (p *Postgres) Create(ctx context.Context, rec *core.LocationRecord) (string, error) {
	var lat, lng pgtype.Float8
	if c := rec.Coordinates; c != nil {
		lat = pgtype.Float8{Float64: c.Lat, Valid: true}
		lng = pgtype.Float8{Float64: c.Lng, Valid: true}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	id := uuid.New()
	_, err := p.pool.Exec(ctx,
		`INSERT INTO locations (id, title, street, city, state, zip, county, phone, website,
			services, languages, hours, hours_note, eligibility, notes, lat, lng, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		id, rec.Title, rec.Address.Street, rec.Address.City, rec.Address.State, rec.Address.ZIP,
		rec.Address.County, rec.Phone, rec.Website, nonNil(rec.Services), nonNil(rec.Languages),
		rec.Hours, rec.HoursNote, rec.Eligibility, rec.Notes, lat, lng, createdAt,
	)
	if err != nil {
		return "", classifyPg("insert location", err)
	}
	return id.String(), nil
}

func (p *Postgres) List(ctx context.Context, county string) ([]core.LocationRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id::text, title, street, city, state, zip, county, phone, website,
			services, languages, hours, hours_note, eligibility, notes, lat, lng, created_at
		 FROM locations
		 WHERE $1 = '' OR county = $1
		 ORDER BY title`,
		county,
	)
	if err != nil {
		return nil, classifyPg("list locations", err)
	}
	defer rows.Close()

	out := []core.LocationRecord{}
	for rows.Next() {
		var (
			r        core.LocationRecord
			lat, lng pgtype.Float8
		)
		if err := rows.Scan(
			&r.ID, &r.Title, &r.Address.Street, &r.Address.City, &r.Address.State, &r.Address.ZIP,
			&r.Address.County, &r.Phone, &r.Website, &r.Services, &r.Languages, &r.Hours,
			&r.HoursNote, &r.Eligibility, &r.Notes, &lat, &lng, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		r.Services = nonNil(r.Services)
		r.Languages = nonNil(r.Languages)
		if lat.Valid && lng.Valid {
			r.Coordinates = &core.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPg("list locations", err)
	}
	return out, nil
}

func (p *Postgres) SetCoordinates(ctx context.Context, id string, c core.Coordinates) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("location %s not found", id)
	}
	tag, err := p.pool.Exec(ctx, `UPDATE locations SET lat = $1, lng = $2 WHERE id = $3`, c.Lat, c.Lng, uid)
	if err != nil {
		return classifyPg("update coordinates", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location %s not found", id)
	}
	return nil
}

func (p *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return 0, classifyPg("count locations", err)
	}
	return n, nil
}
