package comments

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"firewatch/internal/apperror"
	"firewatch/internal/fires"
)

const maxTextLen = 5000

// FireGetter is the slice of the fire store the ledger needs: existence
// checks before touching the comment table.
type FireGetter interface {
	GetByID(ctx context.Context, id int64) (*fires.Fire, error)
}

type Service struct {
	store  Store
	fires  FireGetter
	logger *slog.Logger
}

func NewService(store Store, fireGetter FireGetter, logger *slog.Logger) *Service {
	return &Service{store: store, fires: fireGetter, logger: logger}
}

// Add appends a comment. Any authenticated user may comment regardless of
// role or incident status; closed fires still accept follow-up notes.
func (s *Service) Add(ctx context.Context, fireID, authorID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.InvalidInput("comment text is required")
	}
	if len(text) > maxTextLen {
		return nil, apperror.InvalidInput("comment text must be at most 5000 characters")
	}
	if err := s.checkFire(ctx, fireID); err != nil {
		return nil, err
	}

	c := &Comment{FireID: fireID, UserID: authorID, Text: text}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("comment added", "fire_id", fireID, "comment_id", c.ID, "author_id", authorID)
	return c, nil
}

func (s *Service) ListFor(ctx context.Context, fireID int64) ([]Comment, error) {
	if err := s.checkFire(ctx, fireID); err != nil {
		return nil, err
	}
	return s.store.ListByFire(ctx, fireID)
}

func (s *Service) checkFire(ctx context.Context, fireID int64) error {
	if _, err := s.fires.GetByID(ctx, fireID); err != nil {
		if errors.Is(err, fires.ErrFireNotFound) {
			return apperror.NotFound("fire", fireID)
		}
		return err
	}
	return nil
}
