package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/logging"
	"github.com/jonathan/hypergigs/internal/schemas"
	"github.com/jonathan/hypergigs/internal/types"
)

// emptyEvidence is returned for users that have no stored evidence.
var emptyEvidence = json.RawMessage(`{}`)

// Store persists verification state on the user record.
type Store interface {
	// GetVerification returns nil, nil when the user does not exist.
	GetVerification(ctx context.Context, userID uuid.UUID) (*types.VerificationRecord, error)
	UpdateVerificationScores(ctx context.Context, userID uuid.UUID, scores types.VerificationScoreSet) error
	UpdateVerification(ctx context.Context, rec *types.VerificationRecord) error
}

// Service updates verification scores and review decisions.
type Service struct {
	store   Store
	weights Weights
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a verification service.
func NewService(store Store, weights Weights, logger *zap.Logger) (*Service, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Service{store: store, weights: weights, logger: logging.OrNop(logger), now: time.Now}, nil
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (*types.VerificationRecord, error) {
	rec, err := s.store.GetVerification(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load verification: %w", err)
	}
	if rec == nil {
		return nil, apperr.NotFound("user", userID.String())
	}
	return rec, nil
}

// GetVerification returns the verification record of a user. Missing evidence is returned as {}.
func (s *Service) GetVerification(ctx context.Context, userID uuid.UUID) (*types.VerificationRecord, error) {
	rec, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rec.Evidence) == 0 {
		rec.Evidence = emptyEvidence
	}
	return rec, nil
}

// UpdateScores applies any subset of the sub-scores and stores the recomputed overall score.
func (s *Service) UpdateScores(ctx context.Context, userID uuid.UUID, req types.UpdateScoresRequest) (*types.VerificationScoreSet, error) {
	rec, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	scores, err := RecomputeOverall(req.AISkillScore, req.PortfolioScore, req.ExperienceScore, rec.Scores, s.weights)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateVerificationScores(ctx, userID, scores); err != nil {
		return nil, fmt.Errorf("failed to update verification scores: %w", err)
	}

	s.logger.Info("verification scores updated",
		zap.String("user_id", userID.String()),
		zap.Int("overall_score", scores.OverallScore),
	)
	return &scores, nil
}

// UpdateStatus records an admin review decision. Evidence must match the verification evidence
// schema. The stored tier is kept when no tier is given.
func (s *Service) UpdateStatus(ctx context.Context, userID, adminID uuid.UUID, req types.UpdateVerificationRequest) (*types.VerificationRecord, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("verification", err)
	}
	if len(req.Evidence) > 0 {
		if err := schemas.Validate(schemas.VerificationEvidence, req.Evidence); err != nil {
			return nil, apperr.Invalid("verification_data", err)
		}
	}

	rec, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	scores, err := RecomputeOverall(req.AISkillScore, req.PortfolioScore, req.ExperienceScore, rec.Scores, s.weights)
	if err != nil {
		return nil, err
	}

	updated := *rec
	updated.Status = types.VerificationStatus(req.Status)
	updated.Scores = scores
	if req.Tier != "" {
		updated.Tier = req.Tier
	}
	if len(req.Evidence) > 0 {
		updated.Evidence = req.Evidence
	}
	admin := adminID
	updated.VerifiedBy = &admin
	now := s.now().UTC()
	updated.VerificationDate = &now

	if err := s.store.UpdateVerification(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update verification: %w", err)
	}

	s.logger.Info("user verification updated",
		zap.String("user_id", userID.String()),
		zap.String("status", req.Status),
		zap.String("tier", updated.Tier),
	)
	return &updated, nil
}
