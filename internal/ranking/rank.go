package ranking

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/hypergigs/internal/types"
)

// maxReasonParts caps how many contributions a reason mentions.
const maxReasonParts = 3

// noSignalsReason is used when nothing matched.
const noSignalsReason = "No strong signals"

// Rank filters results below minScore, sorts by score descending with ties broken by
// candidate id ascending, and truncates to limit. limit <= 0 keeps everything.
// The input slice is not modified.
func Rank(results []types.MatchResult, minScore, limit int) []types.MatchResult {
	ranked := make([]types.MatchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= minScore {
			ranked = append(ranked, r)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return bytes.Compare(ranked[i].CandidateID[:], ranked[j].CandidateID[:]) < 0
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Reason renders the top contributions as a short phrase, for example
// "Skilled in opencv, yolo; based in Austin".
func (e Evaluation) Reason() string {
	top := e.Top(maxReasonParts)
	if len(top) == 0 {
		return noSignalsReason
	}

	// Group by field, keeping the order of first appearance.
	var order []Field
	grouped := make(map[Field][]string)
	for _, c := range top {
		if _, seen := grouped[c.Field]; !seen {
			order = append(order, c.Field)
		}
		grouped[c.Field] = append(grouped[c.Field], c.Keyword)
	}

	parts := make([]string, 0, len(order))
	for _, f := range order {
		parts = append(parts, describe(f, grouped[f]))
	}
	return strings.Join(parts, "; ")
}

func describe(field Field, keywords []string) string {
	list := strings.Join(keywords, ", ")
	switch field {
	case FieldSkill:
		return fmt.Sprintf("Skilled in %s", list)
	case FieldTitle:
		return fmt.Sprintf("Title matches %s", list)
	case FieldLocation:
		return fmt.Sprintf("based in %s", list)
	case FieldRole:
		return fmt.Sprintf("Worked in %s roles", list)
	case FieldBio:
		return fmt.Sprintf("Bio mentions %s", list)
	default:
		return fmt.Sprintf("Experience mentions %s", list)
	}
}
