package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// VerificationScoreSet holds the three 0-100 sub-scores and their weighted overall score.
type VerificationScoreSet struct {
	AISkillScore    int `json:"ai_skill_score"`
	PortfolioScore  int `json:"portfolio_score"`
	ExperienceScore int `json:"experience_score"`
	OverallScore    int `json:"overall_score"`
}

// VerificationStatus is the review state of a talent profile.
type VerificationStatus string

const (
	VerificationUnverified     VerificationStatus = "UNVERIFIED"
	VerificationPending        VerificationStatus = "PENDING"
	VerificationUnderReview    VerificationStatus = "UNDER_REVIEW"
	VerificationVerified       VerificationStatus = "VERIFIED"
	VerificationVerifiedExpert VerificationStatus = "VERIFIED_EXPERT"
	VerificationRejected       VerificationStatus = "REJECTED"
)

// VerificationRecord is the stored verification state of a user.
type VerificationRecord struct {
	UserID           uuid.UUID            `json:"user_id"`
	Status           VerificationStatus   `json:"verification_status"`
	Tier             string               `json:"verification_tier,omitempty"`
	Scores           VerificationScoreSet `json:"scores"`
	Evidence         json.RawMessage      `json:"verification_data,omitempty"`
	VerifiedBy       *uuid.UUID           `json:"verified_by,omitempty"`
	VerificationDate *time.Time           `json:"verification_date,omitempty"`
}

// UpdateScoresRequest supplies any subset of the three sub-scores.
type UpdateScoresRequest struct {
	AISkillScore    *int `json:"ai_skill_score,omitempty" validate:"omitempty,min=0,max=100"`
	PortfolioScore  *int `json:"portfolio_score,omitempty" validate:"omitempty,min=0,max=100"`
	ExperienceScore *int `json:"experience_score,omitempty" validate:"omitempty,min=0,max=100"`
}

// UpdateVerificationRequest is an admin review decision.
type UpdateVerificationRequest struct {
	Status   string          `json:"verification_status" validate:"required,oneof=UNVERIFIED PENDING UNDER_REVIEW VERIFIED VERIFIED_EXPERT REJECTED"`
	Tier     string          `json:"verification_tier,omitempty" validate:"omitempty,oneof=JUNIOR MID SENIOR EXPERT PRINCIPAL"`
	Evidence json.RawMessage `json:"verification_data,omitempty"`
	UpdateScoresRequest
}
