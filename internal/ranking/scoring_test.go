package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hypergigs/internal/skills"
	"github.com/jonathan/hypergigs/internal/types"
)

func TestEvaluate_FieldPoints(t *testing.T) {
	keywords := skills.NewKeywordSet("vision")

	tests := []struct {
		name      string
		candidate types.CandidateProfile
		want      int
		field     Field
	}{
		{"skill", types.CandidateProfile{Skills: []types.SkillRef{{Name: "Computer Vision"}}}, 3, FieldSkill},
		{"title", types.CandidateProfile{JobTitle: "Vision Engineer"}, 3, FieldTitle},
		{"role", types.CandidateProfile{WorkExperiences: []types.WorkExperience{{Role: "Vision Researcher"}}}, 2, FieldRole},
		{"bio", types.CandidateProfile{Bio: "I love machine vision"}, 1, FieldBio},
		{"description", types.CandidateProfile{WorkExperiences: []types.WorkExperience{{Role: "Engineer", Description: "built vision models"}}}, 1, FieldDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Evaluate(keywords, tt.candidate, types.TeamLocation{})
			assert.Equal(t, tt.want, eval.Score)
			require.Len(t, eval.Contributions, 1)
			assert.Equal(t, tt.field, eval.Contributions[0].Field)
			assert.Equal(t, "vision", eval.Contributions[0].Keyword)
		})
	}
}

func TestEvaluate_PairCountsOnce(t *testing.T) {
	keywords := skills.NewKeywordSet("python")
	candidate := types.CandidateProfile{
		Skills: []types.SkillRef{{Name: "Python"}, {Name: "Python Scripting"}, {Name: "CPython internals"}},
	}

	assert.Equal(t, 3, Score(keywords, candidate, types.TeamLocation{}))
}

func TestEvaluate_SumsAcrossFieldsAndKeywords(t *testing.T) {
	keywords := skills.NewKeywordSet("ml", "vision")
	candidate := types.CandidateProfile{
		JobTitle: "ML Engineer",
		Bio:      "computer vision and ml",
		Skills:   []types.SkillRef{{Name: "Vision Transformers"}},
	}

	// ml: title 3 + bio 1; vision: skill 3 + bio 1
	assert.Equal(t, 8, Score(keywords, candidate, types.TeamLocation{}))
}

func TestEvaluate_EmptyProfile(t *testing.T) {
	keywords := skills.NewKeywordSet("vision", "labs")

	eval := Evaluate(keywords, types.CandidateProfile{}, types.TeamLocation{City: "Austin"})
	assert.Equal(t, 0, eval.Score)
	assert.Equal(t, "No strong signals", eval.Reason())
}

func TestEvaluate_LocationFloor(t *testing.T) {
	tests := []struct {
		name      string
		candidate types.CandidateProfile
		want      int
	}{
		{"exact city", types.CandidateProfile{Location: "Austin"}, 3},
		{"case insensitive", types.CandidateProfile{Location: "AUSTIN"}, 3},
		{"city with region", types.CandidateProfile{Location: "Austin, TX"}, 3},
		{"country field", types.CandidateProfile{Country: "austin"}, 3},
		{"city inside a longer name", types.CandidateProfile{Location: "Greater Austin Area"}, 3},
		{"city as a prefix of another town", types.CandidateProfile{Location: "Austintown, OH"}, 0},
		{"city as a suffix of another town", types.CandidateProfile{Location: "East-Austinville"}, 0},
		{"later occurrence on a boundary", types.CandidateProfile{Location: "Austintown or Austin"}, 3},
		{"no match", types.CandidateProfile{Location: "Remote"}, 0},
		{"missing location", types.CandidateProfile{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(skills.NewKeywordSet(), tt.candidate, types.TeamLocation{City: "Austin"})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_NoTeamCityNoBonus(t *testing.T) {
	assert.Equal(t, 0, Score(skills.NewKeywordSet(), types.CandidateProfile{Location: "Austin"}, types.TeamLocation{}))
}

func TestEvaluate_Monotonic(t *testing.T) {
	keywords := skills.NewKeywordSet("opencv", "yolo", "pytorch")
	candidate := types.CandidateProfile{
		JobTitle: "Engineer",
		Skills:   []types.SkillRef{{Name: "OpenCV"}},
		Location: "Austin",
	}
	loc := types.TeamLocation{City: "Austin"}

	before := Score(keywords, candidate, loc)
	candidate.Skills = append(candidate.Skills, types.SkillRef{Name: "YOLO"})
	after := Score(keywords, candidate, loc)

	assert.GreaterOrEqual(t, after, before)
	assert.Equal(t, before+skillPoints, after)
}

func TestReason(t *testing.T) {
	keywords := skills.NewKeywordSet("opencv", "yolo", "vision")
	candidate := types.CandidateProfile{
		JobTitle: "Vision Engineer",
		Bio:      "vision nerd",
		Skills:   []types.SkillRef{{Name: "OpenCV"}, {Name: "YOLOv8"}},
	}

	assert.Equal(t, "Skilled in opencv, yolo; Title matches vision", Reason(keywords, candidate))
}

func TestReason_IncludesLocationFromEvaluation(t *testing.T) {
	keywords := skills.NewKeywordSet("opencv")
	candidate := types.CandidateProfile{Skills: []types.SkillRef{{Name: "OpenCV"}}, Location: "Austin"}

	eval := Evaluate(keywords, candidate, types.TeamLocation{City: "Austin"})
	assert.Equal(t, 6, eval.Score)
	assert.Equal(t, "Skilled in opencv; based in Austin", eval.Reason())

	assert.Equal(t, "Skilled in opencv", Reason(keywords, candidate))
}

func TestEvaluation_TopCapsAtThree(t *testing.T) {
	keywords := skills.NewKeywordSet("a1", "b2", "c3", "d4")
	candidate := types.CandidateProfile{Bio: "a1 b2 c3 d4", Skills: []types.SkillRef{{Name: "d4"}}}

	eval := Evaluate(keywords, candidate, types.TeamLocation{})
	top := eval.Top(3)
	require.Len(t, top, 3)
	assert.Equal(t, Contribution{Field: FieldSkill, Keyword: "d4", Points: 3}, top[0])
	assert.Equal(t, FieldBio, top[1].Field)
	assert.Equal(t, "a1", top[1].Keyword)
	assert.Len(t, eval.Contributions, 5, "Top must not modify the evaluation")
}
