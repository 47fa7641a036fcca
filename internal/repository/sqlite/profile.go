package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/repository"
)

var _ repository.ProfileRepository = (*DB)(nil)

// Create stores a new profile. It assigns p.ID (an xid: 20 URL-safe chars,
// sortable by creation time) and p.CreatedAt before encoding, so the stored
// document and the caller's record agree.
func (db *DB) Create(ctx context.Context, p *model.ProfileRecord) (string, error) {
	p.ID = xid.New().String()
	p.CreatedAt = time.Now().UTC()

	doc, digest, err := repository.EncodeDocument(p)
	if err != nil {
		return "", err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO profiles (id, name, template, document, digest, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		p.SelectedTemplate,
		string(doc),
		digest,
		p.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return "", apperror.Conflict("profile", p.ID)
		}
		return "", fmt.Errorf("sqlite: creating profile: %w", err)
	}

	return digest, nil
}

// GetByID loads a profile and the digest it was stored with.
func (db *DB) GetByID(ctx context.Context, id string) (*repository.StoredProfile, error) {
	var (
		doc    string
		digest string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT document, digest FROM profiles WHERE id = ?`,
		id,
	).Scan(&doc, &digest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("profile", id)
		}
		return nil, fmt.Errorf("sqlite: getting profile %s: %w", id, err)
	}

	p, err := repository.DecodeDocument([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("sqlite: profile %s: %w", id, err)
	}

	// Rows written before the digest column existed.
	if digest == "" {
		digest = repository.Digest([]byte(doc))
	}

	return &repository.StoredProfile{Profile: p, Digest: digest}, nil
}
