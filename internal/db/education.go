package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/types"
)

const educationColumns = `id, user_id, institution, degree, field_of_study, start_date, end_date, present,
	COALESCE(description, ''), gpa, created_at`

func scanEducation(row interface{ Scan(...any) error }) (*types.Education, error) {
	var e types.Education
	err := row.Scan(&e.ID, &e.UserID, &e.Institution, &e.Degree, &e.FieldOfStudy, &e.StartDate, &e.EndDate,
		&e.Present, &e.Description, &e.GPA, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEducation returns a user's education records, most recent start date first.
func (db *DB) ListEducation(ctx context.Context, userID uuid.UUID) ([]types.Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+educationColumns+` FROM education
		 WHERE user_id = $1
		 ORDER BY start_date DESC NULLS LAST, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	list := []types.Education{}
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// GetEducation retrieves an education record by ID. Returns nil, nil if not found.
func (db *DB) GetEducation(ctx context.Context, id uuid.UUID) (*types.Education, error) {
	e, err := scanEducation(db.pool.QueryRow(ctx, `SELECT `+educationColumns+` FROM education WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get education: %w", err)
	}
	return e, nil
}

// CreateEducation inserts an education record.
func (db *DB) CreateEducation(ctx context.Context, e *types.Education) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO education (id, user_id, institution, degree, field_of_study, start_date, end_date, present,
		                        description, gpa, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.UserID, e.Institution, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate, e.Present,
		nullString(e.Description), e.GPA, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create education: %w", err)
	}
	return nil
}

// UpdateEducation overwrites the mutable columns of an education record.
func (db *DB) UpdateEducation(ctx context.Context, e *types.Education) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE education SET institution = $2, degree = $3, field_of_study = $4, start_date = $5, end_date = $6,
		        present = $7, description = $8, gpa = $9
		 WHERE id = $1`,
		e.ID, e.Institution, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate, e.Present,
		nullString(e.Description), e.GPA,
	)
	if err != nil {
		return fmt.Errorf("failed to update education: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("education not found: %s", e.ID)
	}
	return nil
}

// DeleteEducation removes an education record.
func (db *DB) DeleteEducation(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM education WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete education: %w", err)
	}
	return nil
}
