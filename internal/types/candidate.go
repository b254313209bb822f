package types

import "github.com/google/uuid"

// SkillRef names a skill attached to a user profile.
type SkillRef struct {
	Name string `json:"name"`
}

// WorkExperience is one entry of a candidate's work history.
type WorkExperience struct {
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
}

// CandidateProfile is the read-only view of a user used for matching.
// Empty text fields are treated as absent.
type CandidateProfile struct {
	ID              uuid.UUID        `json:"id"`
	Username        string           `json:"username,omitempty"`
	Bio             string           `json:"bio,omitempty"`
	JobTitle        string           `json:"job_title,omitempty"`
	Location        string           `json:"location,omitempty"`
	Country         string           `json:"country,omitempty"`
	Available       bool             `json:"available"`
	Skills          []SkillRef       `json:"skills"`
	WorkExperiences []WorkExperience `json:"work_experiences"`
}

// MatchResult is a scored member suggestion. It is produced per call and never stored.
type MatchResult struct {
	CandidateID uuid.UUID         `json:"candidate_id"`
	Score       int               `json:"score"`
	MatchReason string            `json:"match_reason"`
	Candidate   *CandidateSummary `json:"candidate,omitempty"`
}

// CandidateSummary is the display part of a suggested member.
type CandidateSummary struct {
	Username  string `json:"username,omitempty"`
	JobTitle  string `json:"job_title,omitempty"`
	Location  string `json:"location,omitempty"`
	Available bool   `json:"available"`
}
