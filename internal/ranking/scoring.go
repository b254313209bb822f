// Package ranking scores candidate profiles against a team's keywords and orders the results.
package ranking

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/hypergigs/internal/skills"
	"github.com/jonathan/hypergigs/internal/types"
)

// Points awarded per (keyword, field) hit.
const (
	skillPoints       = 3
	titlePoints       = 3
	rolePoints        = 2
	bioPoints         = 1
	descriptionPoints = 1

	// LocationBonus is awarded when the team city matches the candidate location or country.
	// It equals the default minimum passing score.
	LocationBonus = 3
)

// Field identifies the part of a profile a contribution came from.
type Field string

const (
	FieldSkill       Field = "skill"
	FieldTitle       Field = "title"
	FieldLocation    Field = "location"
	FieldRole        Field = "role"
	FieldBio         Field = "bio"
	FieldDescription Field = "description"
)

// fieldPriority orders equally weighted contributions in a reason.
var fieldPriority = map[Field]int{
	FieldSkill:       0,
	FieldTitle:       1,
	FieldLocation:    2,
	FieldRole:        3,
	FieldBio:         4,
	FieldDescription: 5,
}

// Contribution is one scored hit.
type Contribution struct {
	Field   Field  `json:"field"`
	Keyword string `json:"keyword"` // city name for FieldLocation
	Points  int    `json:"points"`
}

// Evaluation is the score of one candidate and the hits that produced it.
type Evaluation struct {
	Score         int            `json:"score"`
	Contributions []Contribution `json:"contributions"`
}

// Evaluate scores a candidate. Every keyword is checked as a case-insensitive substring of each
// profile field and each (keyword, field) pair counts at most once, so repeated mentions across
// several skills or work entries do not stack. Absent text contributes nothing.
func Evaluate(keywords skills.KeywordSet, candidate types.CandidateProfile, teamLocation types.TeamLocation) Evaluation {
	var eval Evaluation

	title := strings.ToLower(candidate.JobTitle)
	bio := strings.ToLower(candidate.Bio)

	skillNames := make([]string, 0, len(candidate.Skills))
	for _, s := range candidate.Skills {
		if name := strings.ToLower(strings.TrimSpace(s.Name)); name != "" {
			skillNames = append(skillNames, name)
		}
	}
	roles := make([]string, 0, len(candidate.WorkExperiences))
	descriptions := make([]string, 0, len(candidate.WorkExperiences))
	for _, w := range candidate.WorkExperiences {
		if w.Role != "" {
			roles = append(roles, strings.ToLower(w.Role))
		}
		if w.Description != "" {
			descriptions = append(descriptions, strings.ToLower(w.Description))
		}
	}

	// Sorted iteration keeps contribution order stable across runs.
	for _, kw := range keywords.Slice() {
		if anyContains(skillNames, kw) {
			eval.add(FieldSkill, kw, skillPoints)
		}
		if strings.Contains(title, kw) {
			eval.add(FieldTitle, kw, titlePoints)
		}
		if anyContains(roles, kw) {
			eval.add(FieldRole, kw, rolePoints)
		}
		if strings.Contains(bio, kw) {
			eval.add(FieldBio, kw, bioPoints)
		}
		if anyContains(descriptions, kw) {
			eval.add(FieldDescription, kw, descriptionPoints)
		}
	}

	if city, ok := locationMatch(teamLocation, candidate); ok {
		eval.add(FieldLocation, city, LocationBonus)
	}

	return eval
}

// Score returns the candidate's relevance score.
func Score(keywords skills.KeywordSet, candidate types.CandidateProfile, teamLocation types.TeamLocation) int {
	return Evaluate(keywords, candidate, teamLocation).Score
}

// Reason explains the keyword matches of a candidate. Location is not considered.
func Reason(keywords skills.KeywordSet, candidate types.CandidateProfile) string {
	return Evaluate(keywords, candidate, types.TeamLocation{}).Reason()
}

func (e *Evaluation) add(field Field, keyword string, points int) {
	e.Contributions = append(e.Contributions, Contribution{Field: field, Keyword: keyword, Points: points})
	e.Score += points
}

// Top returns up to n contributions, highest points first.
func (e Evaluation) Top(n int) []Contribution {
	top := make([]Contribution, len(e.Contributions))
	copy(top, e.Contributions)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Points != top[j].Points {
			return top[i].Points > top[j].Points
		}
		if fieldPriority[top[i].Field] != fieldPriority[top[j].Field] {
			return fieldPriority[top[i].Field] < fieldPriority[top[j].Field]
		}
		return top[i].Keyword < top[j].Keyword
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

func locationMatch(teamLocation types.TeamLocation, candidate types.CandidateProfile) (string, bool) {
	city := strings.ToLower(strings.TrimSpace(teamLocation.City))
	if city == "" {
		return "", false
	}
	location := strings.ToLower(strings.TrimSpace(candidate.Location))
	country := strings.ToLower(strings.TrimSpace(candidate.Country))
	if country == city || containsWord(location, city) {
		return strings.TrimSpace(teamLocation.City), true
	}
	return "", false
}

// containsWord reports whether phrase occurs in s with no letter or digit directly on either side.
func containsWord(s, phrase string) bool {
	for start := 0; start <= len(s)-len(phrase); {
		i := strings.Index(s[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if !wordRuneBefore(s, i) && !wordRuneAfter(s, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordRuneAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func anyContains(values []string, keyword string) bool {
	for _, v := range values {
		if strings.Contains(v, keyword) {
			return true
		}
	}
	return false
}
