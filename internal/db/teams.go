package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/types"
)

// TeamInput holds the columns written by CreateTeam.
type TeamInput struct {
	Name              string
	Description       string
	Type              types.TeamType
	SubTeamCategory   types.SubTeamCategory
	City              string
	IsConsultingFirm  bool
	AISpecializations []string
	TechStack         []string
	Industries        []string
}

// CreateTeam inserts a team and adds ownerID as its first member.
func (db *DB) CreateTeam(ctx context.Context, in TeamInput, ownerID uuid.UUID) (uuid.UUID, error) {
	if in.Type == "" {
		in.Type = types.TeamTypeTeam
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO teams (name, description, type, sub_team_category, city, is_consulting_firm,
		                    ai_specializations, tech_stack, industries)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		in.Name, nullString(in.Description), string(in.Type), nullString(string(in.SubTeamCategory)),
		nullString(in.City), in.IsConsultingFirm,
		StringArray(in.AISpecializations), StringArray(in.TechStack), StringArray(in.Industries),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create team: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, role) VALUES ($1, $2, 'OWNER')`,
		id, ownerID,
	); err != nil {
		return uuid.Nil, fmt.Errorf("failed to add team owner: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit team: %w", err)
	}
	return id, nil
}

// AddTeamMember adds userID to a team. Adding an existing member is a no-op.
func (db *DB) AddTeamMember(ctx context.Context, teamID, userID uuid.UUID, role string) error {
	if role == "" {
		role = "MEMBER"
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, role) VALUES ($1, $2, $3)
		 ON CONFLICT (team_id, user_id) DO NOTHING`,
		teamID, userID, role,
	)
	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// IsTeamMember reports whether userID belongs to teamID.
func (db *DB) IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	ok, err := db.exists(ctx,
		`SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`,
		teamID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return ok, nil
}

// TeamExists reports whether a team with id exists.
func (db *DB) TeamExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := db.exists(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check team: %w", err)
	}
	return ok, nil
}

// GetTeam loads a team with its member ids. Returns nil, nil if not found.
// Array columns that do not hold string arrays are returned empty with a warning in ParseWarnings.
func (db *DB) GetTeam(ctx context.Context, id uuid.UUID) (*types.TeamProfile, error) {
	var (
		team                       types.TeamProfile
		teamType, subCategory      string
		specs, techStack, industry []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), type, COALESCE(sub_team_category, ''),
		        COALESCE(city, ''), is_consulting_firm, ai_specializations, tech_stack, industries
		 FROM teams WHERE id = $1`,
		id,
	).Scan(&team.ID, &team.Name, &team.Description, &teamType, &subCategory,
		&team.City, &team.IsConsultingFirm, &specs, &techStack, &industry)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	team.Type = types.TeamType(teamType)
	team.SubTeamCategory = types.SubTeamCategory(subCategory)
	decodeTeamArrays(&team, specs, techStack, industry)

	members, err := db.teamMemberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	team.MemberIDs = members
	return &team, nil
}

// decodeTeamArrays decodes each consulting-firm column independently.
func decodeTeamArrays(team *types.TeamProfile, specs, techStack, industries []byte) {
	for _, col := range []struct {
		name string
		raw  []byte
		dst  *[]string
	}{
		{"ai_specializations", specs, &team.AISpecializations},
		{"tech_stack", techStack, &team.TechStack},
		{"industries", industries, &team.Industries},
	} {
		values, err := decodeStringArray(col.name, col.raw)
		if err != nil {
			team.ParseWarnings = append(team.ParseWarnings, err)
		}
		*col.dst = values
	}
}

func (db *DB) teamMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY joined_at, user_id`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
