package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/types"
)

// GetVerification loads the verification columns of a user. Returns nil, nil if the user does not exist.
func (db *DB) GetVerification(ctx context.Context, userID uuid.UUID) (*types.VerificationRecord, error) {
	var (
		rec      types.VerificationRecord
		status   string
		tier     *string
		evidence []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, verification_status, verification_tier, verification_data, verified_by, verification_date,
		        ai_skill_score, portfolio_score, experience_score, overall_score
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&rec.UserID, &status, &tier, &evidence, &rec.VerifiedBy, &rec.VerificationDate,
		&rec.Scores.AISkillScore, &rec.Scores.PortfolioScore, &rec.Scores.ExperienceScore, &rec.Scores.OverallScore)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}
	rec.Status = types.VerificationStatus(status)
	if tier != nil {
		rec.Tier = *tier
	}
	if len(evidence) > 0 {
		rec.Evidence = evidence
	}
	return &rec, nil
}

// UpdateVerificationScores writes the four score columns of a user.
func (db *DB) UpdateVerificationScores(ctx context.Context, userID uuid.UUID, scores types.VerificationScoreSet) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET ai_skill_score = $2, portfolio_score = $3, experience_score = $4, overall_score = $5,
		        updated_at = NOW()
		 WHERE id = $1`,
		userID, scores.AISkillScore, scores.PortfolioScore, scores.ExperienceScore, scores.OverallScore,
	)
	if err != nil {
		return fmt.Errorf("failed to update verification scores: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// UpdateVerification writes a review decision together with the scores it was made on.
func (db *DB) UpdateVerification(ctx context.Context, rec *types.VerificationRecord) error {
	var evidence []byte
	if len(rec.Evidence) > 0 {
		evidence = rec.Evidence
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET verification_status = $2, verification_tier = $3, verification_data = $4,
		        verified_by = $5, verification_date = $6, ai_skill_score = $7, portfolio_score = $8,
		        experience_score = $9, overall_score = $10, updated_at = NOW()
		 WHERE id = $1`,
		rec.UserID, string(rec.Status), nullString(rec.Tier), evidence, rec.VerifiedBy, rec.VerificationDate,
		rec.Scores.AISkillScore, rec.Scores.PortfolioScore, rec.Scores.ExperienceScore, rec.Scores.OverallScore,
	)
	if err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", rec.UserID)
	}
	return nil
}
