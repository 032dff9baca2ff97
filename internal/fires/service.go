package fires

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"firewatch/internal/apperror"
	"firewatch/internal/auth"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service owns the incident lifecycle rules: input validation on create,
// and the role + monotonicity checks on status transitions. Storage
// atomicity is the Store's job; legality is decided here.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Create(ctx context.Context, reporterID int64, lat, lng float64, description string) (*Fire, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperror.InvalidInput("description is required")
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return nil, apperror.InvalidInput("coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return nil, apperror.InvalidInput("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return nil, apperror.InvalidInput("longitude must be between -180 and 180")
	}

	f := &Fire{
		ReporterID:  reporterID,
		Latitude:    lat,
		Longitude:   lng,
		Description: description,
		Status:      StatusReported,
	}
	if err := s.store.Create(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("fire reported", "fire_id", f.ID, "reporter_id", reporterID)
	return s.store.GetByID(ctx, f.ID)
}

func (s *Service) List(ctx context.Context, flt ListFilter) ([]Fire, int, error) {
	if flt.Limit <= 0 {
		flt.Limit = defaultListLimit
	}
	if flt.Limit > maxListLimit {
		flt.Limit = maxListLimit
	}
	if flt.Offset < 0 {
		flt.Offset = 0
	}
	return s.store.List(ctx, flt)
}

func (s *Service) Get(ctx context.Context, id int64) (*Fire, error) {
	f, err := s.store.GetByID(ctx, id)
	if errors.Is(err, ErrFireNotFound) {
		return nil, apperror.NotFound("fire", id)
	}
	return f, err
}

// UpdateStatus applies a lifecycle transition on behalf of the acting user.
// Only firefighters may transition; closed is terminal; moving to an
// earlier or equal state fails. The store's compare-and-set keeps the rule
// intact when two firefighters race on the same fire: the legality decided
// here is re-checked against the row's status inside the store's critical
// section, never against a stale read.
func (s *Service) UpdateStatus(ctx context.Context, id int64, requested Status, actor *auth.User) (*Fire, error) {
	if actor.Role != auth.RoleFirefighter {
		return nil, apperror.Forbidden("firefighter role required")
	}

	from := allowedFrom(requested)
	if from == nil {
		return nil, apperror.InvalidTransition(`status must be "seen" or "closed"`)
	}

	f, err := s.store.Transition(ctx, id, from, requested)
	if errors.Is(err, ErrNotTransitioned) {
		cur, getErr := s.store.GetByID(ctx, id)
		if errors.Is(getErr, ErrFireNotFound) {
			return nil, apperror.NotFound("fire", id)
		}
		if getErr != nil {
			return nil, getErr
		}
		return nil, apperror.InvalidTransition(
			fmt.Sprintf("cannot transition fire from %s to %s", cur.Status, requested))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("fire status updated",
		"fire_id", f.ID, "status", f.Status, "actor_id", actor.ID)
	return f, nil
}
