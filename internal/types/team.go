package types

import "github.com/google/uuid"

// TeamType is the top-level kind of a team.
type TeamType string

const (
	TeamTypeCompany      TeamType = "COMPANY"
	TeamTypeOrganization TeamType = "ORGANIZATION"
	TeamTypeTeam         TeamType = "TEAM"
)

// SubTeamCategory tags the department a sub-team belongs to.
type SubTeamCategory string

const (
	SubTeamEngineering SubTeamCategory = "ENGINEERING"
	SubTeamMarketing   SubTeamCategory = "MARKETING"
	SubTeamDesign      SubTeamCategory = "DESIGN"
	SubTeamHR          SubTeamCategory = "HR"
	SubTeamSales       SubTeamCategory = "SALES"
	SubTeamProduct     SubTeamCategory = "PRODUCT"
	SubTeamOperations  SubTeamCategory = "OPERATIONS"
	SubTeamFinance     SubTeamCategory = "FINANCE"
	SubTeamLegal       SubTeamCategory = "LEGAL"
	SubTeamSupport     SubTeamCategory = "SUPPORT"
	SubTeamOther       SubTeamCategory = "OTHER"
)

// TeamProfile is the read-only view of a team used for member matching.
// Array fields are never nil after a store load; an empty slice is the default.
type TeamProfile struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Type              TeamType        `json:"type"`
	SubTeamCategory   SubTeamCategory `json:"sub_team_category,omitempty"`
	IsConsultingFirm  bool            `json:"is_consulting_firm"`
	AISpecializations []string        `json:"ai_specializations"`
	TechStack         []string        `json:"tech_stack"`
	Industries        []string        `json:"industries"`
	City              string          `json:"city,omitempty"`

	// MemberIDs holds the ids of current members.
	MemberIDs []uuid.UUID `json:"member_ids,omitempty"`

	// ParseWarnings collects columns that could not be decoded at load time.
	ParseWarnings []error `json:"-"`
}

// TeamLocation is the location part of a team used for the location bonus.
type TeamLocation struct {
	City string `json:"city,omitempty"`
}

// Location returns the team's location for scoring.
func (t *TeamProfile) Location() TeamLocation {
	return TeamLocation{City: t.City}
}

// HasMember reports whether userID is among the team's members.
func (t *TeamProfile) HasMember(userID uuid.UUID) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
