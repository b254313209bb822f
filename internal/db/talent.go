package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/types"
)

const talentColumns = `u.id, u.username, COALESCE(u.job_title, ''), COALESCE(u.location, ''), u.is_ai_talent,
	COALESCE(u.talent_role, ''), COALESCE(u.talent_tier, ''), COALESCE(u.employment_preference, ''),
	COALESCE(u.timezone, ''), COALESCE(u.github_url, ''), u.hourly_rate, u.hourly_rate_max, u.currency,
	u.availability_status, u.verification_status, COALESCE(u.verification_tier, ''),
	u.ai_skill_score, u.portfolio_score, u.experience_score, u.overall_score,
	COALESCE((SELECT json_agg(s.name ORDER BY s.name)
	          FROM user_skills us JOIN skills s ON s.id = us.skill_id
	          WHERE us.user_id = u.id), '[]'::json)`

// talentOrder ranks verification states the same way as VerificationStatus.Rank.
var talentOrder = func() string {
	var b strings.Builder
	b.WriteString("CASE u.verification_status")
	for _, s := range types.VerificationStatuses() {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", s, s.Rank())
	}
	b.WriteString(" ELSE -1 END DESC, u.overall_score DESC, u.id")
	return b.String()
}()

func scanTalent(row interface{ Scan(...any) error }) (*types.TalentProfile, error) {
	var (
		p                          types.TalentProfile
		tier, availability, status string
		currency                   string
		skillsRaw                  []byte
	)
	err := row.Scan(&p.UserID, &p.Username, &p.JobTitle, &p.Location, &p.IsAITalent,
		&p.TalentRole, &tier, &p.EmploymentPreference, &p.Timezone, &p.GithubURL,
		&p.HourlyRate, &p.HourlyRateMax, &currency, &availability, &status, &p.VerificationTier,
		&p.Scores.AISkillScore, &p.Scores.PortfolioScore, &p.Scores.ExperienceScore, &p.Scores.OverallScore,
		&skillsRaw)
	if err != nil {
		return nil, err
	}
	p.TalentTier = types.TalentTier(tier)
	p.Currency = strings.TrimSpace(currency)
	p.AvailabilityStatus = types.AvailabilityStatus(availability)
	p.VerificationStatus = types.VerificationStatus(status)

	var skills StringArray
	if err := skills.Scan(skillsRaw); err != nil {
		return nil, fmt.Errorf("failed to decode talent skills: %w", err)
	}
	p.Skills = skills
	return &p, nil
}

// GetTalentProfile loads the talent fields of a user. Returns nil, nil if the user does not exist.
func (db *DB) GetTalentProfile(ctx context.Context, userID uuid.UUID) (*types.TalentProfile, error) {
	p, err := scanTalent(db.pool.QueryRow(ctx, `SELECT `+talentColumns+` FROM users u WHERE u.id = $1`, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get talent profile: %w", err)
	}
	return p, nil
}

// UpdateTalentProfile writes the self-managed talent columns. Verification columns are left alone.
func (db *DB) UpdateTalentProfile(ctx context.Context, p *types.TalentProfile) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET is_ai_talent = $2, talent_role = $3, talent_tier = $4, employment_preference = $5,
		        timezone = $6, github_url = $7, hourly_rate = $8, hourly_rate_max = $9,
		        availability_status = $10, updated_at = NOW()
		 WHERE id = $1`,
		p.UserID, p.IsAITalent, nullString(p.TalentRole), nullString(string(p.TalentTier)),
		nullString(p.EmploymentPreference), nullString(p.Timezone), nullString(p.GithubURL),
		p.HourlyRate, p.HourlyRateMax, string(p.AvailabilityStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to update talent profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", p.UserID)
	}
	return nil
}

// SearchTalent returns AI talent matching f, best verified and highest scored first.
func (db *DB) SearchTalent(ctx context.Context, f types.TalentFilter) ([]types.TalentProfile, error) {
	w := filter{clauses: []string{"u.is_ai_talent"}}
	if f.TalentRole != "" {
		w.add("u.talent_role = $%d", f.TalentRole)
	}
	if f.TalentTier != "" {
		w.add("u.talent_tier = $%d", f.TalentTier)
	}
	if f.EmploymentPreference != "" {
		w.add("u.employment_preference = $%d", f.EmploymentPreference)
	}
	if f.VerificationStatus != "" {
		w.add("u.verification_status = $%d", f.VerificationStatus)
	}
	if f.VerificationTier != "" {
		w.add("u.verification_tier = $%d", f.VerificationTier)
	}
	if f.AvailabilityStatus != "" {
		w.add("u.availability_status = $%d", f.AvailabilityStatus)
	}
	if f.Timezone != "" {
		w.add("u.timezone ILIKE '%%' || $%d || '%%'", f.Timezone)
	}
	if f.MinHourlyRate != nil {
		w.add("u.hourly_rate >= $%d", *f.MinHourlyRate)
	}
	if f.MaxHourlyRate != nil {
		w.add("u.hourly_rate <= $%d", *f.MaxHourlyRate)
	}
	if len(f.Skills) > 0 {
		w.add(`EXISTS (SELECT 1 FROM user_skills us JOIN skills s ON s.id = us.skill_id
		        WHERE us.user_id = u.id AND (LOWER(s.name) = ANY($%[1]d) OR s.id::text = ANY($%[1]d)))`, f.Skills)
	}
	query := `SELECT ` + talentColumns + ` FROM users u` + w.where() +
		` ORDER BY ` + talentOrder + w.page(f.Limit, f.Offset)

	rows, err := db.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search talent: %w", err)
	}
	defer rows.Close()

	list := []types.TalentProfile{}
	for rows.Next() {
		p, err := scanTalent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan talent: %w", err)
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// TalentStats counts AI talent overall and per verification status, tier and role.
func (db *DB) TalentStats(ctx context.Context) (*types.TalentStats, error) {
	stats := &types.TalentStats{Breakdown: []types.TalentBreakdown{}}
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE verification_status IN ('VERIFIED', 'VERIFIED_EXPERT')),
		        COUNT(*) FILTER (WHERE availability_status = 'AVAILABLE'),
		        COALESCE(AVG(overall_score), 0)::float8
		 FROM users WHERE is_ai_talent`,
	).Scan(&stats.TotalTalent, &stats.VerifiedTalent, &stats.AvailableTalent, &stats.AverageOverall)
	if err != nil {
		return nil, fmt.Errorf("failed to count talent: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT verification_status, COALESCE(talent_tier, ''), COALESCE(talent_role, ''), COUNT(*)
		 FROM users WHERE is_ai_talent
		 GROUP BY 1, 2, 3
		 ORDER BY 1, 2, 3`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to group talent: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			b            types.TalentBreakdown
			status, tier string
		)
		if err := rows.Scan(&status, &tier, &b.TalentRole, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan talent breakdown: %w", err)
		}
		b.VerificationStatus = types.VerificationStatus(status)
		b.TalentTier = types.TalentTier(tier)
		stats.Breakdown = append(stats.Breakdown, b)
	}
	return stats, rows.Err()
}
