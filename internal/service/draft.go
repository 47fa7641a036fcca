package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/draft"
	"github.com/sakif/genfolio/internal/model"
)

// DraftService reads and writes the in-progress profile of one browser
// session. The key comes from the session cookie.
type DraftService struct {
	store  draft.Store
	logger *slog.Logger
}

func NewDraftService(store draft.Store, logger *slog.Logger) *DraftService {
	return &DraftService{store: store, logger: logger}
}

// Load returns the stored draft, or an empty record when there is none.
func (s *DraftService) Load(ctx context.Context, key string) (*model.ProfileRecord, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	p, err := s.store.Load(ctx, key)
	if errors.Is(err, draft.ErrNoDraft) {
		return &model.ProfileRecord{}, nil
	}
	if err != nil {
		s.logger.Error("failed to load draft",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Unavailable("draft storage is unavailable", err)
	}
	return p, nil
}

// Save overwrites the draft. Drafts are not validated; half-filled forms
// are the point.
func (s *DraftService) Save(ctx context.Context, key string, p *model.ProfileRecord) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if p == nil {
		p = &model.ProfileRecord{}
	}
	if err := s.store.Save(ctx, key, p); err != nil {
		s.logger.Error("failed to save draft",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return apperror.Unavailable("draft storage is unavailable", fmt.Errorf("saving draft: %w", err))
	}
	return nil
}

// Clear removes the draft. Clearing a missing draft is not an error.
func (s *DraftService) Clear(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, key); err != nil {
		s.logger.Error("failed to clear draft",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return apperror.Unavailable("draft storage is unavailable", fmt.Errorf("clearing draft: %w", err))
	}
	s.logger.Debug("draft cleared", slog.String("key", key))
	return nil
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return apperror.ValidationFailed("key", "draft key is required")
	}
	return nil
}
