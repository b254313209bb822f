package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/types"
)

const subscriptionColumns = `id, subscriber_id, subscriber_type, plan, status, amount, currency, billing_interval,
	COALESCE(stripe_subscription_id, ''), COALESCE(stripe_customer_id, ''), current_period_start,
	current_period_end, cancel_at, cancelled_at, created_at`

func scanSubscription(row interface{ Scan(...any) error }) (*types.Subscription, error) {
	var (
		s      types.Subscription
		status string
	)
	err := row.Scan(&s.ID, &s.SubscriberID, &s.SubscriberType, &s.Plan, &status, &s.Amount, &s.Currency,
		&s.Interval, &s.StripeSubscriptionID, &s.StripeCustomerID, &s.CurrentPeriodStart,
		&s.CurrentPeriodEnd, &s.CancelAt, &s.CancelledAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = types.SubscriptionStatus(status)
	return &s, nil
}

// CreateSubscription inserts a subscription.
func (db *DB) CreateSubscription(ctx context.Context, s *types.Subscription) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO subscriptions (id, subscriber_id, subscriber_type, plan, status, amount, currency,
		                            billing_interval, stripe_subscription_id, stripe_customer_id,
		                            current_period_start, current_period_end, cancel_at, cancelled_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		s.ID, s.SubscriberID, s.SubscriberType, s.Plan, string(s.Status), s.Amount, s.Currency, s.Interval,
		nullString(s.StripeSubscriptionID), nullString(s.StripeCustomerID), s.CurrentPeriodStart,
		s.CurrentPeriodEnd, s.CancelAt, s.CancelledAt, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// GetSubscription retrieves a subscription by ID. Returns nil, nil if not found.
func (db *DB) GetSubscription(ctx context.Context, id uuid.UUID) (*types.Subscription, error) {
	s, err := scanSubscription(db.pool.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

// ActiveSubscription returns the newest ACTIVE subscription of a subscriber. Returns nil, nil if none.
func (db *DB) ActiveSubscription(ctx context.Context, subscriberID uuid.UUID) (*types.Subscription, error) {
	s, err := scanSubscription(db.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE subscriber_id = $1 AND status = 'ACTIVE'
		 ORDER BY created_at DESC LIMIT 1`,
		subscriberID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return s, nil
}

// UpdateSubscription overwrites the mutable columns of a subscription.
func (db *DB) UpdateSubscription(ctx context.Context, s *types.Subscription) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE subscriptions SET plan = $2, status = $3, amount = $4, current_period_start = $5,
		        current_period_end = $6, cancel_at = $7, cancelled_at = $8
		 WHERE id = $1`,
		s.ID, s.Plan, string(s.Status), s.Amount, s.CurrentPeriodStart, s.CurrentPeriodEnd, s.CancelAt, s.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription not found: %s", s.ID)
	}
	return nil
}

// SearchSubscriptions returns subscriptions matching f, newest first.
func (db *DB) SearchSubscriptions(ctx context.Context, f types.SubscriptionFilters) ([]types.Subscription, error) {
	var w filter
	if f.SubscriberID != nil {
		w.add("subscriber_id = $%d", *f.SubscriberID)
	}
	if f.SubscriberType != "" {
		w.add("subscriber_type = $%d", f.SubscriberType)
	}
	if f.Plan != "" {
		w.add("plan = $%d", f.Plan)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions` + w.where() +
		` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)
	return db.querySubscriptions(ctx, query, w.args...)
}

// SubscriptionsEndingBetween returns ACTIVE subscriptions whose period ends in [from, to], soonest first.
func (db *DB) SubscriptionsEndingBetween(ctx context.Context, from, to time.Time) ([]types.Subscription, error) {
	return db.querySubscriptions(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE status = 'ACTIVE' AND current_period_end BETWEEN $1 AND $2
		 ORDER BY current_period_end ASC`,
		from, to,
	)
}

func (db *DB) querySubscriptions(ctx context.Context, query string, args ...any) ([]types.Subscription, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	list := []types.Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}
