package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/types"
)

// ListCandidates returns up to limit users that are not in excludeIDs, with their skills and
// work experiences, ordered by id so the pool is stable between calls.
func (db *DB) ListCandidates(ctx context.Context, excludeIDs []uuid.UUID, limit int) ([]types.CandidateProfile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT u.id, u.username, COALESCE(u.bio, ''), COALESCE(u.job_title, ''),
		        COALESCE(u.location, ''), COALESCE(u.country, ''), u.available,
		        COALESCE((SELECT json_agg(s.name ORDER BY s.name)
		                  FROM user_skills us JOIN skills s ON s.id = us.skill_id
		                  WHERE us.user_id = u.id), '[]'::json),
		        COALESCE((SELECT json_agg(json_build_object('role', w.title, 'description', COALESCE(w.description, ''))
		                          ORDER BY w.created_at, w.id)
		                  FROM work_experiences w WHERE w.user_id = u.id), '[]'::json)
		 FROM users u
		 WHERE NOT (u.id = ANY($1::uuid[]))
		 ORDER BY u.id
		 LIMIT $2`,
		uuidStrings(excludeIDs), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []types.CandidateProfile{}
	for rows.Next() {
		var (
			c                 types.CandidateProfile
			skillsRaw, expRaw []byte
		)
		if err := rows.Scan(&c.ID, &c.Username, &c.Bio, &c.JobTitle, &c.Location, &c.Country, &c.Available,
			&skillsRaw, &expRaw); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if err := decodeCandidateDetails(&c, skillsRaw, expRaw); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

// decodeCandidateDetails fills skills and work experiences from the aggregated JSON columns.
func decodeCandidateDetails(c *types.CandidateProfile, skillsRaw, expRaw []byte) error {
	var names StringArray
	if err := names.Scan(skillsRaw); err != nil {
		return fmt.Errorf("failed to decode skills of %s: %w", c.ID, err)
	}
	c.Skills = make([]types.SkillRef, 0, len(names))
	for _, n := range names {
		c.Skills = append(c.Skills, types.SkillRef{Name: n})
	}

	c.WorkExperiences = []types.WorkExperience{}
	if len(expRaw) > 0 {
		if err := json.Unmarshal(expRaw, &c.WorkExperiences); err != nil {
			return fmt.Errorf("failed to decode work experiences of %s: %w", c.ID, err)
		}
	}
	return nil
}

// AddUserSkill attaches a skill by name, creating it when needed.
func (db *DB) AddUserSkill(ctx context.Context, userID uuid.UUID, skill string) error {
	_, err := db.pool.Exec(ctx,
		`WITH s AS (
		     INSERT INTO skills (name) VALUES ($2)
		     ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		     RETURNING id
		 )
		 INSERT INTO user_skills (user_id, skill_id) SELECT $1, id FROM s
		 ON CONFLICT DO NOTHING`,
		userID, skill,
	)
	if err != nil {
		return fmt.Errorf("failed to add skill %s: %w", skill, err)
	}
	return nil
}

// AddWorkExperience appends a work history entry.
func (db *DB) AddWorkExperience(ctx context.Context, userID uuid.UUID, exp types.WorkExperience) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO work_experiences (user_id, title, description) VALUES ($1, $2, $3)`,
		userID, exp.Role, nullString(exp.Description),
	)
	if err != nil {
		return fmt.Errorf("failed to add work experience: %w", err)
	}
	return nil
}

// UpdateProfile sets the matching-relevant profile columns of a user.
func (db *DB) UpdateProfile(ctx context.Context, userID uuid.UUID, bio, jobTitle, location, country string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET bio = $2, job_title = $3, location = $4, country = $5, updated_at = NOW()
		 WHERE id = $1`,
		userID, nullString(bio), nullString(jobTitle), nullString(location), nullString(country),
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
