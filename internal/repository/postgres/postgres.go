// Package postgres implements the repository interfaces on PostgreSQL via
// lib/pq. It stores the same JSON document as the sqlite backend, in a JSONB
// column, so the two are interchangeable behind repository.ProfileRepository.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/xid"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/repository"
)

var _ repository.ProfileRepository = (*DB)(nil)

// uniqueViolation is the SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

type DB struct {
	conn *sql.DB
}

// New connects to dsn (a postgres:// URL or key=value string) and runs
// migrations.
func New(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			template   TEXT NOT NULL DEFAULT '',
			document   JSONB NOT NULL,
			digest     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}
	return nil
}

// Create stores a new profile, assigning its ID and CreatedAt.
func (db *DB) Create(ctx context.Context, p *model.ProfileRecord) (string, error) {
	p.ID = xid.New().String()
	p.CreatedAt = time.Now().UTC()

	doc, digest, err := repository.EncodeDocument(p)
	if err != nil {
		return "", err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO profiles (id, name, template, document, digest, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.SelectedTemplate, string(doc), digest, p.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return "", apperror.Conflict("profile", p.ID)
		}
		return "", fmt.Errorf("postgres: creating profile: %w", err)
	}
	return digest, nil
}

// GetByID loads a profile by id.
//
// JSONB normalizes whitespace and key order, so the digest is the one
// computed at write time, not a hash of what comes back.
func (db *DB) GetByID(ctx context.Context, id string) (*repository.StoredProfile, error) {
	var (
		doc    []byte
		digest string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT document, digest FROM profiles WHERE id = $1`, id,
	).Scan(&doc, &digest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("profile", id)
		}
		return nil, fmt.Errorf("postgres: getting profile %s: %w", id, err)
	}

	p, err := repository.DecodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("postgres: profile %s: %w", id, err)
	}
	if digest == "" {
		digest = repository.Digest(doc)
	}
	return &repository.StoredProfile{Profile: p, Digest: digest}, nil
}
