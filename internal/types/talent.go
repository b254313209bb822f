package types

import "github.com/google/uuid"

// TalentTier is the self-declared seniority of an AI talent profile. Verification tiers use the same values.
type TalentTier string

const (
	TalentJunior    TalentTier = "JUNIOR"
	TalentMid       TalentTier = "MID"
	TalentSenior    TalentTier = "SENIOR"
	TalentExpert    TalentTier = "EXPERT"
	TalentPrincipal TalentTier = "PRINCIPAL"
)

// AvailabilityStatus tells firms whether a talent is open to work.
type AvailabilityStatus string

const (
	AvailabilityAvailable  AvailabilityStatus = "AVAILABLE"
	AvailabilityBusy       AvailabilityStatus = "BUSY"
	AvailabilityNotLooking AvailabilityStatus = "NOT_LOOKING"
)

// verificationRank orders review states for talent search; higher ranks come first.
var verificationRank = map[VerificationStatus]int{
	VerificationVerifiedExpert: 5,
	VerificationVerified:       4,
	VerificationUnderReview:    3,
	VerificationPending:        2,
	VerificationUnverified:     1,
	VerificationRejected:       0,
}

// Rank returns the search precedence of a verification status.
func (s VerificationStatus) Rank() int {
	return verificationRank[s]
}

// VerificationStatuses lists every verification status.
func VerificationStatuses() []VerificationStatus {
	return []VerificationStatus{
		VerificationUnverified, VerificationPending, VerificationUnderReview,
		VerificationVerified, VerificationVerifiedExpert, VerificationRejected,
	}
}

// IsVerified reports whether the status counts as verified talent.
func (s VerificationStatus) IsVerified() bool {
	return s == VerificationVerified || s == VerificationVerifiedExpert
}

// TalentProfile is the marketplace view of a user listed as AI talent.
type TalentProfile struct {
	UserID               uuid.UUID            `json:"user_id"`
	Username             string               `json:"username"`
	JobTitle             string               `json:"job_title,omitempty"`
	Location             string               `json:"location,omitempty"`
	IsAITalent           bool                 `json:"is_ai_talent"`
	TalentRole           string               `json:"talent_role,omitempty"`
	TalentTier           TalentTier           `json:"talent_tier,omitempty"`
	EmploymentPreference string               `json:"employment_preference,omitempty"`
	Timezone             string               `json:"timezone,omitempty"`
	GithubURL            string               `json:"github_url,omitempty"`
	HourlyRate           *float64             `json:"hourly_rate,omitempty"`
	HourlyRateMax        *float64             `json:"hourly_rate_max,omitempty"`
	Currency             string               `json:"currency"`
	AvailabilityStatus   AvailabilityStatus   `json:"availability_status"`
	VerificationStatus   VerificationStatus   `json:"verification_status"`
	VerificationTier     string               `json:"verification_tier,omitempty"`
	Scores               VerificationScoreSet `json:"scores"`
	Skills               []string             `json:"skills"`
}

// TalentFilter narrows a talent search. Skills match by name, case-insensitively, and any one is enough.
type TalentFilter struct {
	TalentRole           string   `json:"talent_role,omitempty" validate:"omitempty,max=100"`
	TalentTier           string   `json:"talent_tier,omitempty" validate:"omitempty,oneof=JUNIOR MID SENIOR EXPERT PRINCIPAL"`
	EmploymentPreference string   `json:"employment_preference,omitempty" validate:"omitempty,oneof=CONTRACT TEMP_TO_PERM PERMANENT ANY"`
	VerificationStatus   string   `json:"verification_status,omitempty" validate:"omitempty,oneof=UNVERIFIED PENDING UNDER_REVIEW VERIFIED VERIFIED_EXPERT REJECTED"`
	VerificationTier     string   `json:"verification_tier,omitempty" validate:"omitempty,oneof=JUNIOR MID SENIOR EXPERT PRINCIPAL"`
	AvailabilityStatus   string   `json:"availability_status,omitempty" validate:"omitempty,oneof=AVAILABLE BUSY NOT_LOOKING"`
	Timezone             string   `json:"timezone,omitempty" validate:"omitempty,max=100"`
	Skills               []string `json:"skills,omitempty" validate:"omitempty,dive,min=1,max=100"`
	MinHourlyRate        *float64 `json:"min_hourly_rate,omitempty" validate:"omitempty,gte=0"`
	MaxHourlyRate        *float64 `json:"max_hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Limit                int      `json:"limit,omitempty" validate:"gte=0"`
	Offset               int      `json:"offset,omitempty" validate:"gte=0"`
}

// TalentBreakdown counts talent per verification status, tier and role.
type TalentBreakdown struct {
	VerificationStatus VerificationStatus `json:"verification_status"`
	TalentTier         TalentTier         `json:"talent_tier,omitempty"`
	TalentRole         string             `json:"talent_role,omitempty"`
	Count              int                `json:"count"`
}

// TalentStats summarizes the talent marketplace.
type TalentStats struct {
	TotalTalent     int               `json:"total_talent"`
	VerifiedTalent  int               `json:"verified_talent"`
	AvailableTalent int               `json:"available_talent"`
	AverageOverall  float64           `json:"average_overall_score"`
	Breakdown       []TalentBreakdown `json:"breakdown"`
}

// UpdateTalentProfileRequest changes any subset of a user's talent marketplace fields.
type UpdateTalentProfileRequest struct {
	IsAITalent           *bool    `json:"is_ai_talent,omitempty"`
	TalentRole           *string  `json:"talent_role,omitempty" validate:"omitempty,max=100"`
	TalentTier           *string  `json:"talent_tier,omitempty" validate:"omitempty,oneof=JUNIOR MID SENIOR EXPERT PRINCIPAL"`
	EmploymentPreference *string  `json:"employment_preference,omitempty" validate:"omitempty,oneof=CONTRACT TEMP_TO_PERM PERMANENT ANY"`
	Timezone             *string  `json:"timezone,omitempty" validate:"omitempty,max=100"`
	GithubURL            *string  `json:"github_url,omitempty" validate:"omitempty,url"`
	HourlyRate           *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	HourlyRateMax        *float64 `json:"hourly_rate_max,omitempty" validate:"omitempty,gte=0"`
	AvailabilityStatus   *string  `json:"availability_status,omitempty" validate:"omitempty,oneof=AVAILABLE BUSY NOT_LOOKING"`
}

// UpdateAvailabilityRequest sets a talent's availability.
type UpdateAvailabilityRequest struct {
	AvailabilityStatus string `json:"availability_status" validate:"required,oneof=AVAILABLE BUSY NOT_LOOKING"`
}
