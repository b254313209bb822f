package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/types"
)

const engagementColumns = `id, title, COALESCE(description, ''), COALESCE(client_name, ''), consulting_firm_id,
	client_id, status, pricing_model, COALESCE(delivery_model, ''), currency, total_value,
	platform_fee_percent, platform_fee_amount, platform_fee_paid, start_date, end_date, duration,
	milestones, created_at, updated_at`

func scanEngagement(row interface{ Scan(...any) error }) (*types.Engagement, error) {
	var (
		e             types.Engagement
		status        string
		milestonesRaw []byte
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.ClientName, &e.ConsultingFirmID,
		&e.ClientID, &status, &e.PricingModel, &e.DeliveryModel, &e.Currency, &e.TotalValue,
		&e.PlatformFeePercent, &e.PlatformFeeAmount, &e.PlatformFeePaid, &e.StartDate, &e.EndDate, &e.Duration,
		&milestonesRaw, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Status = types.EngagementStatus(status)
	e.Milestones = []types.Milestone{}
	if len(milestonesRaw) > 0 {
		if err := json.Unmarshal(milestonesRaw, &e.Milestones); err != nil {
			return nil, fmt.Errorf("failed to decode milestones of %s: %w", e.ID, err)
		}
	}
	return &e, nil
}

// CreateEngagement inserts an engagement with its milestones.
func (db *DB) CreateEngagement(ctx context.Context, e *types.Engagement) error {
	milestones, err := encodeJSON(e.Milestones, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal milestones: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO engagements (id, title, description, client_name, consulting_firm_id, client_id, status,
		                          pricing_model, delivery_model, currency, total_value, platform_fee_percent,
		                          platform_fee_amount, platform_fee_paid, start_date, end_date, duration,
		                          milestones, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		e.ID, e.Title, nullString(e.Description), nullString(e.ClientName), e.ConsultingFirmID, e.ClientID,
		string(e.Status), e.PricingModel, nullString(e.DeliveryModel), e.Currency, e.TotalValue,
		e.PlatformFeePercent, e.PlatformFeeAmount, e.PlatformFeePaid, e.StartDate, e.EndDate, e.Duration,
		milestones, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	return nil
}

// GetEngagement retrieves an engagement by ID. Returns nil, nil if not found.
func (db *DB) GetEngagement(ctx context.Context, id uuid.UUID) (*types.Engagement, error) {
	e, err := scanEngagement(db.pool.QueryRow(ctx, `SELECT `+engagementColumns+` FROM engagements WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get engagement: %w", err)
	}
	return e, nil
}

// EngagementExists reports whether an engagement with id exists.
func (db *DB) EngagementExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := db.exists(ctx, `SELECT EXISTS(SELECT 1 FROM engagements WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check engagement: %w", err)
	}
	return ok, nil
}

// SearchEngagements returns engagements matching f, newest first.
func (db *DB) SearchEngagements(ctx context.Context, f types.EngagementFilters) ([]types.Engagement, error) {
	var w filter
	if f.ConsultingFirmID != nil {
		w.add("consulting_firm_id = $%d", *f.ConsultingFirmID)
	}
	if f.ClientID != nil {
		w.add("client_id = $%d", *f.ClientID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.PricingModel != "" {
		w.add("pricing_model = $%d", f.PricingModel)
	}
	if f.StartDateFrom != nil {
		w.add("start_date >= $%d", *f.StartDateFrom)
	}
	if f.StartDateTo != nil {
		w.add("start_date <= $%d", *f.StartDateTo)
	}
	query := `SELECT ` + engagementColumns + ` FROM engagements` + w.where() +
		` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)

	rows, err := db.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search engagements: %w", err)
	}
	defer rows.Close()

	list := []types.Engagement{}
	for rows.Next() {
		e, err := scanEngagement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// UpdateEngagement overwrites every mutable column of an engagement.
func (db *DB) UpdateEngagement(ctx context.Context, e *types.Engagement) error {
	milestones, err := encodeJSON(e.Milestones, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal milestones: %w", err)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE engagements SET title = $2, description = $3, client_name = $4, client_id = $5, status = $6,
		        pricing_model = $7, delivery_model = $8, currency = $9, total_value = $10,
		        platform_fee_percent = $11, platform_fee_amount = $12, platform_fee_paid = $13,
		        start_date = $14, end_date = $15, duration = $16, milestones = $17, updated_at = $18
		 WHERE id = $1`,
		e.ID, e.Title, nullString(e.Description), nullString(e.ClientName), e.ClientID, string(e.Status),
		e.PricingModel, nullString(e.DeliveryModel), e.Currency, e.TotalValue,
		e.PlatformFeePercent, e.PlatformFeeAmount, e.PlatformFeePaid,
		e.StartDate, e.EndDate, e.Duration, milestones, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update engagement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("engagement not found: %s", e.ID)
	}
	return nil
}

// DeleteEngagement removes an engagement.
func (db *DB) DeleteEngagement(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM engagements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete engagement: %w", err)
	}
	return nil
}

// CountEngagementTransactions counts the transactions linked to an engagement.
func (db *DB) CountEngagementTransactions(ctx context.Context, engagementID uuid.UUID) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE engagement_id = $1`, engagementID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count engagement transactions: %w", err)
	}
	return n, nil
}
