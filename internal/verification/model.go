// Package verification computes talent verification scores and manages admin review decisions.
package verification

import (
	"fmt"
	"math"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/config"
	"github.com/jonathan/hypergigs/internal/types"
)

const (
	minScore = 0
	maxScore = 100

	// weightScale turns weights into integer basis points so 71.5 rounds to 72 rather than 71.
	weightScale = 10000
)

// Weights are the contributions of the three sub-scores to the overall score.
type Weights struct {
	Skill      float64
	Portfolio  float64
	Experience float64
}

// DefaultWeights returns 0.4 / 0.35 / 0.25.
func DefaultWeights() Weights {
	return Weights{
		Skill:      config.DefaultSkillWeight,
		Portfolio:  config.DefaultPortfolioWeight,
		Experience: config.DefaultExperienceWeight,
	}
}

// WeightsFrom reads the weights from the marketplace config.
func WeightsFrom(cfg config.MarketplaceConfig) Weights {
	return Weights{Skill: cfg.SkillWeight, Portfolio: cfg.PortfolioWeight, Experience: cfg.ExperienceWeight}
}

// Validate checks that the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if w.Skill < 0 || w.Portfolio < 0 || w.Experience < 0 {
		return fmt.Errorf("verification weights must be non-negative")
	}
	if sum := w.Skill + w.Portfolio + w.Experience; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("verification weights must sum to 1, got %.4f", sum)
	}
	return nil
}

// RecomputeOverall merges the supplied sub-scores into previous and recomputes the weighted overall
// score, rounded half away from zero. A nil sub-score keeps the previous value. Stored sub-scores
// outside 0..100 are clamped into range.
func RecomputeOverall(skill, portfolio, experience *int, previous types.VerificationScoreSet, w Weights) (types.VerificationScoreSet, error) {
	next := types.VerificationScoreSet{
		AISkillScore:    clamp(previous.AISkillScore),
		PortfolioScore:  clamp(previous.PortfolioScore),
		ExperienceScore: clamp(previous.ExperienceScore),
	}

	for _, s := range []struct {
		field string
		value *int
		dst   *int
	}{
		{"ai_skill_score", skill, &next.AISkillScore},
		{"portfolio_score", portfolio, &next.PortfolioScore},
		{"experience_score", experience, &next.ExperienceScore},
	} {
		if s.value == nil {
			continue
		}
		if *s.value < minScore || *s.value > maxScore {
			return previous, apperr.Validation(s.field, "score must be between %d and %d, got %d", minScore, maxScore, *s.value)
		}
		*s.dst = *s.value
	}

	next.OverallScore = overall(next, w)
	return next, nil
}

func overall(s types.VerificationScoreSet, w Weights) int {
	total := basisPoints(w.Skill)*int64(s.AISkillScore) +
		basisPoints(w.Portfolio)*int64(s.PortfolioScore) +
		basisPoints(w.Experience)*int64(s.ExperienceScore)
	// Sub-scores are non-negative, so adding half a unit rounds half away from zero.
	return min(int((total+weightScale/2)/weightScale), maxScore)
}

func clamp(score int) int {
	return max(minScore, min(score, maxScore))
}

func basisPoints(w float64) int64 {
	return int64(math.Round(w * weightScale))
}
