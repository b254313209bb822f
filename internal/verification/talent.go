package verification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/logging"
	"github.com/jonathan/hypergigs/internal/types"
)

const (
	DefaultTalentLimit = 20
	MaxTalentLimit     = 100
)

// TalentStore persists the talent marketplace fields of users.
type TalentStore interface {
	// GetTalentProfile returns nil, nil when the user does not exist.
	GetTalentProfile(ctx context.Context, userID uuid.UUID) (*types.TalentProfile, error)
	UpdateTalentProfile(ctx context.Context, p *types.TalentProfile) error
	// SearchTalent returns AI talent only, best verified and highest scored first, then by user id.
	SearchTalent(ctx context.Context, f types.TalentFilter) ([]types.TalentProfile, error)
	TalentStats(ctx context.Context) (*types.TalentStats, error)
}

// TalentService lists verified talent and maintains talent profiles.
type TalentService struct {
	store  TalentStore
	logger *zap.Logger
}

// NewTalentService creates a talent service.
func NewTalentService(store TalentStore, logger *zap.Logger) *TalentService {
	return &TalentService{store: store, logger: logging.OrNop(logger)}
}

// Search returns AI talent matching f. Limit defaults to 20 and is capped at 100.
func (s *TalentService) Search(ctx context.Context, f types.TalentFilter) ([]types.TalentProfile, error) {
	f.Skills = normalizeSkills(f.Skills)
	if err := types.ValidateStruct(f); err != nil {
		return nil, apperr.Invalid("talent filter", err)
	}
	if f.MinHourlyRate != nil && f.MaxHourlyRate != nil && *f.MinHourlyRate > *f.MaxHourlyRate {
		return nil, apperr.Validation("min_hourly_rate", "must not exceed max_hourly_rate")
	}
	if f.Limit <= 0 {
		f.Limit = DefaultTalentLimit
	}
	f.Limit = min(f.Limit, MaxTalentLimit)

	list, err := s.store.SearchTalent(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to search talent: %w", err)
	}
	s.logger.Info("found AI talent matching filters", zap.Int("count", len(list)))
	return list, nil
}

// Stats summarizes the talent marketplace.
func (s *TalentService) Stats(ctx context.Context) (*types.TalentStats, error) {
	stats, err := s.store.TalentStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load talent stats: %w", err)
	}
	return stats, nil
}

// UpdateProfile applies the supplied fields to a user's talent profile.
func (s *TalentService) UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateTalentProfileRequest) (*types.TalentProfile, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("talent profile", err)
	}

	p, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.IsAITalent != nil {
		p.IsAITalent = *req.IsAITalent
	}
	if req.TalentRole != nil {
		p.TalentRole = strings.TrimSpace(*req.TalentRole)
	}
	if req.TalentTier != nil {
		p.TalentTier = types.TalentTier(*req.TalentTier)
	}
	if req.EmploymentPreference != nil {
		p.EmploymentPreference = *req.EmploymentPreference
	}
	if req.Timezone != nil {
		p.Timezone = *req.Timezone
	}
	if req.GithubURL != nil {
		p.GithubURL = *req.GithubURL
	}
	if req.HourlyRate != nil {
		p.HourlyRate = req.HourlyRate
	}
	if req.HourlyRateMax != nil {
		p.HourlyRateMax = req.HourlyRateMax
	}
	if req.AvailabilityStatus != nil {
		p.AvailabilityStatus = types.AvailabilityStatus(*req.AvailabilityStatus)
	}
	if p.HourlyRate != nil && p.HourlyRateMax != nil && *p.HourlyRateMax < *p.HourlyRate {
		return nil, apperr.Validation("hourly_rate_max", "must not be below hourly_rate")
	}

	if err := s.store.UpdateTalentProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update talent profile: %w", err)
	}
	s.logger.Info("AI talent profile updated", zap.String("user_id", userID.String()))
	return p, nil
}

// UpdateAvailability sets only the availability of a talent.
func (s *TalentService) UpdateAvailability(ctx context.Context, userID uuid.UUID, req types.UpdateAvailabilityRequest) (*types.TalentProfile, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("availability", err)
	}
	p, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.AvailabilityStatus = types.AvailabilityStatus(req.AvailabilityStatus)
	if err := s.store.UpdateTalentProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	s.logger.Info("user availability updated",
		zap.String("user_id", userID.String()),
		zap.String("availability_status", req.AvailabilityStatus),
	)
	return p, nil
}

func (s *TalentService) loadProfile(ctx context.Context, userID uuid.UUID) (*types.TalentProfile, error) {
	p, err := s.store.GetTalentProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load talent profile: %w", err)
	}
	if p == nil {
		return nil, apperr.NotFound("user", userID.String())
	}
	return p, nil
}

// normalizeSkills lower-cases and dedupes skill names, dropping blanks.
func normalizeSkills(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
