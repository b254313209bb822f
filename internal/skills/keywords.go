// Package skills derives the normalized keyword set used to match candidates against a team.
package skills

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/types"
)

// KeywordSet is a deduplicated set of lower-case keywords.
type KeywordSet map[string]struct{}

// NewKeywordSet builds a set from the given words, normalizing each.
func NewKeywordSet(words ...string) KeywordSet {
	ks := make(KeywordSet, len(words))
	for _, w := range words {
		ks.Add(w)
	}
	return ks
}

// Add normalizes word and inserts it. Blank words are ignored.
func (ks KeywordSet) Add(word string) {
	normalized := NormalizeKeyword(word)
	if normalized == "" {
		return
	}
	ks[normalized] = struct{}{}
}

// Contains reports whether word (after normalization) is in the set.
func (ks KeywordSet) Contains(word string) bool {
	_, ok := ks[NormalizeKeyword(word)]
	return ok
}

// Len returns the number of keywords.
func (ks KeywordSet) Len() int {
	return len(ks)
}

// Slice returns the keywords sorted ascending.
func (ks KeywordSet) Slice() []string {
	out := make([]string, 0, len(ks))
	for k := range ks {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NormalizeKeyword lower-cases and trims a token.
func NormalizeKeyword(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// ExtractKeywords builds the keyword set for a team.
//
// Name and description are split on whitespace; the team type and sub-team category are added
// as tags. For consulting firms every word of every specialization, tech-stack and industry
// entry is added too. There is no stemming and no stop-word removal.
func ExtractKeywords(team types.TeamProfile) KeywordSet {
	ks := make(KeywordSet)

	addWords(ks, team.Name)
	addWords(ks, team.Description)
	ks.Add(string(team.Type))
	ks.Add(string(team.SubTeamCategory))

	if team.IsConsultingFirm {
		for _, group := range [][]string{team.AISpecializations, team.TechStack, team.Industries} {
			for _, entry := range group {
				addWords(ks, entry)
			}
		}
	}

	return ks
}

// ExtractKeywordsLogged is ExtractKeywords plus a warning for every column the store could not decode.
// Degraded columns only shrink the keyword set; they are never returned as errors.
func ExtractKeywordsLogged(team types.TeamProfile, logger *zap.Logger) KeywordSet {
	if logger != nil {
		for _, w := range team.ParseWarnings {
			logger.Warn("skipping malformed team column during keyword extraction",
				zap.String("team_id", team.ID.String()),
				zap.String("kind", string(apperr.KindOf(w))),
				zap.Error(w),
			)
		}
	}
	return ExtractKeywords(team)
}

func addWords(ks KeywordSet, text string) {
	for _, word := range strings.Fields(text) {
		ks.Add(word)
	}
}
