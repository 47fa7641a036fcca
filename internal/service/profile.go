// Package service contains the business rules that sit between the HTTP
// handlers and storage:
//
//	Handler (HTTP) → Service (validation, orchestration) → Repository / draft.Store
//
// Services take interfaces, never concrete stores, so tests can inject
// hand-written fakes and main.go decides which backend runs.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/profile"
	"github.com/sakif/genfolio/internal/repository"
)

// ProfileService validates and stores submitted profiles.
type ProfileService struct {
	repo      repository.ProfileRepository
	templates profile.TemplateSet
	logger    *slog.Logger
}

// NewProfileService wires a ProfileService. templates is the closed set of
// template ids a submission may select.
func NewProfileService(repo repository.ProfileRepository, templates profile.TemplateSet, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:      repo,
		templates: templates,
		logger:    logger,
	}
}

// Create validates p and persists it. Server-assigned fields sent by the
// client are ignored. On success p carries its new ID and CreatedAt.
func (s *ProfileService) Create(ctx context.Context, p *model.ProfileRecord) (*repository.StoredProfile, error) {
	if err := profile.Validate(p, s.templates); err != nil {
		return nil, err
	}

	p.ID = ""
	p.CreatedAt = time.Time{}
	p.SelectedTemplate = strings.TrimSpace(p.SelectedTemplate)

	digest, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.Error("failed to create profile",
			slog.String("name", p.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	s.logger.Info("profile created",
		slog.String("id", p.ID),
		slog.String("template", p.SelectedTemplate),
	)

	return &repository.StoredProfile{Profile: p, Digest: digest}, nil
}

// Get returns the stored profile with the given id. Unknown ids yield an
// apperror.ErrNotFound error.
func (s *ProfileService) Get(ctx context.Context, id string) (*repository.StoredProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "profile ID is required")
	}

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// NotFound is a normal answer, not worth an error log.
		return nil, err
	}
	return stored, nil
}
