// Package education manages the education history shown on talent profiles.
package education

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/logging"
	"github.com/jonathan/hypergigs/internal/types"
)

// Store persists education records.
type Store interface {
	// ListEducation returns a user's records, most recent start date first.
	ListEducation(ctx context.Context, userID uuid.UUID) ([]types.Education, error)
	// GetEducation returns nil, nil when the record does not exist.
	GetEducation(ctx context.Context, id uuid.UUID) (*types.Education, error)
	CreateEducation(ctx context.Context, e *types.Education) error
	UpdateEducation(ctx context.Context, e *types.Education) error
	DeleteEducation(ctx context.Context, id uuid.UUID) error
}

// Service manages education records scoped to their owner.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an education service.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logging.OrNop(logger), now: time.Now}
}

// List returns every education record of a user.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]types.Education, error) {
	list, err := s.store.ListEducation(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	s.logger.Debug("retrieved education records", zap.String("user_id", userID.String()), zap.Int("count", len(list)))
	return list, nil
}

// Get returns one record by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*types.Education, error) {
	e, err := s.store.GetEducation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load education: %w", err)
	}
	if e == nil {
		return nil, apperr.NotFound("education", id.String())
	}
	return e, nil
}

// Create adds a record for userID. Institution and degree are required.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req types.EducationRequest) (*types.Education, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("education", err)
	}
	if req.Institution == nil || *req.Institution == "" {
		return nil, apperr.Validation("institution", "institution is required")
	}
	if req.Degree == nil || *req.Degree == "" {
		return nil, apperr.Validation("degree", "degree is required")
	}

	e := &types.Education{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.apply(e, req); err != nil {
		return nil, err
	}

	if err := s.store.CreateEducation(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create education: %w", err)
	}
	s.logger.Info("education record created",
		zap.String("user_id", userID.String()),
		zap.String("education_id", e.ID.String()),
	)
	return e, nil
}

// Update changes a record owned by userID. A record owned by someone else is reported as missing.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, req types.EducationRequest) (*types.Education, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("education", err)
	}

	current, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if err := s.apply(&updated, req); err != nil {
		return nil, err
	}

	if err := s.store.UpdateEducation(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update education: %w", err)
	}
	s.logger.Info("education record updated", zap.String("education_id", id.String()))
	return &updated, nil
}

// Delete removes a record owned by userID.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.DeleteEducation(ctx, id); err != nil {
		return fmt.Errorf("failed to delete education: %w", err)
	}
	s.logger.Info("education record deleted", zap.String("education_id", id.String()))
	return nil
}

// Stats lists the distinct degrees, fields of study and institutions of a user in record order.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*types.EducationStats, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &types.EducationStats{
		TotalRecords: len(list),
		Degrees:      []string{},
		Fields:       []string{},
		Institutions: []string{},
	}
	seen := map[string]map[string]bool{"degree": {}, "field": {}, "institution": {}}
	add := func(kind, value string, dst *[]string) {
		if value == "" || seen[kind][value] {
			return
		}
		seen[kind][value] = true
		*dst = append(*dst, value)
	}
	for _, e := range list {
		add("degree", e.Degree, &stats.Degrees)
		add("field", e.FieldOfStudy, &stats.Fields)
		add("institution", e.Institution, &stats.Institutions)
	}
	return stats, nil
}

func (s *Service) owned(ctx context.Context, id, userID uuid.UUID) (*types.Education, error) {
	e, err := s.store.GetEducation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load education: %w", err)
	}
	if e == nil || e.UserID != userID {
		return nil, apperr.NotFound("education", id.String())
	}
	return e, nil
}

// apply merges req into e and checks the date rules on the result.
func (s *Service) apply(e *types.Education, req types.EducationRequest) error {
	if req.Present != nil && *req.Present && req.EndDate != nil {
		return apperr.Validation("end_date", "cannot set end date when present is true")
	}

	if req.Institution != nil {
		e.Institution = *req.Institution
	}
	if req.Degree != nil {
		e.Degree = *req.Degree
	}
	if req.FieldOfStudy != nil {
		e.FieldOfStudy = *req.FieldOfStudy
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.GPA != nil {
		gpa := *req.GPA
		e.GPA = &gpa
	}
	if req.StartDate != nil {
		e.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = req.EndDate
		e.Present = false
	}
	if req.Present != nil {
		e.Present = *req.Present
		if e.Present {
			e.EndDate = nil
		}
	}

	return ValidateDates(e.StartDate, e.EndDate, s.now())
}

// ValidateDates rejects a start date in the future and an end date before the start date.
func ValidateDates(start, end *time.Time, now time.Time) error {
	if start != nil && start.After(now) {
		return apperr.Validation("start_date", "start date cannot be in the future")
	}
	if start != nil && end != nil && start.After(*end) {
		return apperr.Validation("end_date", "end date must be after start date")
	}
	return nil
}
