package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/types"
)

func intPtr(v int) *int { return &v }

func TestRecomputeOverall(t *testing.T) {
	tests := []struct {
		name     string
		skill    *int
		port     *int
		exp      *int
		previous types.VerificationScoreSet
		want     types.VerificationScoreSet
	}{
		{
			name:  "all supplied, half rounds up",
			skill: intPtr(80), port: intPtr(70), exp: intPtr(60),
			want: types.VerificationScoreSet{AISkillScore: 80, PortfolioScore: 70, ExperienceScore: 60, OverallScore: 72},
		},
		{
			name:     "missing values fall back to previous",
			skill:    intPtr(100),
			previous: types.VerificationScoreSet{PortfolioScore: 50, ExperienceScore: 40, OverallScore: 28},
			want:     types.VerificationScoreSet{AISkillScore: 100, PortfolioScore: 50, ExperienceScore: 40, OverallScore: 68},
		},
		{
			name: "nothing supplied and nothing stored",
			want: types.VerificationScoreSet{},
		},
		{
			name:  "upper bound",
			skill: intPtr(100), port: intPtr(100), exp: intPtr(100),
			want: types.VerificationScoreSet{AISkillScore: 100, PortfolioScore: 100, ExperienceScore: 100, OverallScore: 100},
		},
		{
			name: "stale overall is recomputed",
			previous: types.VerificationScoreSet{
				AISkillScore: 10, PortfolioScore: 10, ExperienceScore: 10, OverallScore: 99,
			},
			want: types.VerificationScoreSet{AISkillScore: 10, PortfolioScore: 10, ExperienceScore: 10, OverallScore: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecomputeOverall(tt.skill, tt.port, tt.exp, tt.previous, DefaultWeights())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecomputeOverall_OutOfRange(t *testing.T) {
	previous := types.VerificationScoreSet{AISkillScore: 50, PortfolioScore: 50, ExperienceScore: 50, OverallScore: 50}

	for _, v := range []int{-1, 101} {
		got, err := RecomputeOverall(intPtr(80), nil, intPtr(v), previous, DefaultWeights())
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.Equal(t, previous, got, "previous scores are returned untouched")
	}
}

func TestRecomputeOverall_CustomWeights(t *testing.T) {
	w := Weights{Skill: 1}
	got, err := RecomputeOverall(intPtr(42), intPtr(100), intPtr(100), types.VerificationScoreSet{}, w)
	require.NoError(t, err)
	assert.Equal(t, 42, got.OverallScore)
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{Skill: 0.5, Portfolio: 0.5, Experience: 0.5}.Validate())
	assert.Error(t, Weights{Skill: 1.5, Portfolio: -0.5}.Validate())
}

func TestRecomputeOverall_ClampsStoredScores(t *testing.T) {
	previous := types.VerificationScoreSet{AISkillScore: -40, PortfolioScore: 250, ExperienceScore: 60, OverallScore: 999}

	got, err := RecomputeOverall(nil, nil, nil, previous, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 0, got.AISkillScore)
	assert.Equal(t, 100, got.PortfolioScore)
	assert.Equal(t, 50, got.OverallScore)

	previous = types.VerificationScoreSet{AISkillScore: 500, PortfolioScore: 500, ExperienceScore: 500}
	got, err = RecomputeOverall(nil, nil, nil, previous, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 100, got.OverallScore)
}
