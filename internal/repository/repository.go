// Package repository defines the storage contract for submitted profiles.
//
// A submitted profile is immutable: it is created once and read back by id.
// There is deliberately no Update or Delete.
package repository

import (
	"context"

	"github.com/sakif/genfolio/internal/model"
)

// StoredProfile is a profile as persisted, together with the digest of its
// stored document. The digest changes whenever the stored bytes change, so
// it doubles as an HTTP ETag.
type StoredProfile struct {
	Profile *model.ProfileRecord
	Digest  string
}

// ProfileRepository persists submitted profiles.
//
// Create assigns ID and CreatedAt on the passed record and returns the
// digest of what was stored. GetByID returns an apperror.ErrNotFound error
// for unknown ids.
type ProfileRepository interface {
	Create(ctx context.Context, p *model.ProfileRecord) (string, error)
	GetByID(ctx context.Context, id string) (*StoredProfile, error)
}
