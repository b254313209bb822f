package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/config"
	"github.com/jonathan/hypergigs/internal/logging"
	"github.com/jonathan/hypergigs/internal/types"
)

// Subscriber types.
const (
	SubscriberUser = "USER"
	SubscriberTeam = "TEAM"
)

// Billing intervals.
const (
	IntervalMonth = "MONTH"
	IntervalYear  = "YEAR"
)

// DefaultExpiryWindowDays is the look-ahead used by the renewal reminder job.
const DefaultExpiryWindowDays = 7

// SubscriptionStore persists subscriptions.
type SubscriptionStore interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	TeamExists(ctx context.Context, id uuid.UUID) (bool, error)

	CreateSubscription(ctx context.Context, sub *types.Subscription) error
	// GetSubscription returns nil, nil when the subscription does not exist.
	GetSubscription(ctx context.Context, id uuid.UUID) (*types.Subscription, error)
	UpdateSubscription(ctx context.Context, sub *types.Subscription) error
	// ActiveSubscription returns the newest ACTIVE subscription of a subscriber, or nil, nil.
	ActiveSubscription(ctx context.Context, subscriberID uuid.UUID) (*types.Subscription, error)
	// SearchSubscriptions returns matches newest first. Limit <= 0 means no limit.
	SearchSubscriptions(ctx context.Context, f types.SubscriptionFilters) ([]types.Subscription, error)
	// SubscriptionsEndingBetween returns ACTIVE subscriptions whose period ends in [from, to],
	// soonest first.
	SubscriptionsEndingBetween(ctx context.Context, from, to time.Time) ([]types.Subscription, error)
}

// SubscriptionService manages recurring plans of users and teams.
type SubscriptionService struct {
	store    SubscriptionStore
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewSubscriptionService creates a subscription service. An empty currency defaults to USD.
func NewSubscriptionService(store SubscriptionStore, currency string, logger *zap.Logger) *SubscriptionService {
	if currency == "" {
		currency = config.DefaultCurrency
	}
	return &SubscriptionService{store: store, currency: currency, logger: logging.OrNop(logger), now: time.Now}
}

// Create starts a subscription. A subscriber may hold only one ACTIVE subscription.
func (s *SubscriptionService) Create(ctx context.Context, req types.CreateSubscriptionRequest) (*types.Subscription, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("subscription", err)
	}

	var (
		exists bool
		err    error
	)
	switch req.SubscriberType {
	case SubscriberUser:
		exists, err = s.store.UserExists(ctx, req.SubscriberID)
	case SubscriberTeam:
		exists, err = s.store.TeamExists(ctx, req.SubscriberID)
	default:
		return nil, apperr.Validation("subscriber_type", "invalid subscriber type (must be USER or TEAM)")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriber: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("subscriber", req.SubscriberID.String())
	}

	if !req.CurrentPeriodStart.Before(req.CurrentPeriodEnd) {
		return nil, apperr.Validation("current_period_start", "current period start must be before current period end")
	}

	active, err := s.store.ActiveSubscription(ctx, req.SubscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active subscription: %w", err)
	}
	if active != nil {
		return nil, apperr.Conflict("subscription", "subscriber already has an active subscription, cancel or change the existing one first")
	}

	sub := &types.Subscription{
		ID:                   uuid.New(),
		SubscriberID:         req.SubscriberID,
		SubscriberType:       req.SubscriberType,
		Plan:                 req.Plan,
		Status:               types.SubscriptionActive,
		Amount:               req.Amount,
		Currency:             s.currency,
		Interval:             IntervalMonth,
		StripeSubscriptionID: req.StripeSubscriptionID,
		StripeCustomerID:     req.StripeCustomerID,
		CurrentPeriodStart:   req.CurrentPeriodStart.UTC(),
		CurrentPeriodEnd:     req.CurrentPeriodEnd.UTC(),
		CreatedAt:            s.now().UTC(),
	}
	if req.Status != "" {
		sub.Status = types.SubscriptionStatus(req.Status)
	}
	if req.Currency != "" {
		sub.Currency = req.Currency
	}
	if req.Interval != "" {
		sub.Interval = req.Interval
	}

	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	s.logger.Info("subscription created",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("subscriber_type", sub.SubscriberType),
		zap.String("subscriber_id", sub.SubscriberID.String()),
	)
	return sub, nil
}

// Get returns a subscription by id.
func (s *SubscriptionService) Get(ctx context.Context, id uuid.UUID) (*types.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, apperr.NotFound("subscription", id.String())
	}
	return sub, nil
}

// Active returns the active subscription of a subscriber, or nil when there is none.
func (s *SubscriptionService) Active(ctx context.Context, subscriberID uuid.UUID) (*types.Subscription, error) {
	sub, err := s.store.ActiveSubscription(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active subscription: %w", err)
	}
	return sub, nil
}

// Cancel cancels a subscription. A nil cancelAt cancels immediately.
func (s *SubscriptionService) Cancel(ctx context.Context, id uuid.UUID, cancelAt *time.Time) (*types.Subscription, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == types.SubscriptionCancelled {
		return nil, apperr.Conflict("subscription", "subscription already cancelled")
	}

	now := s.now().UTC()
	updated := *sub
	updated.Status = types.SubscriptionCancelled
	updated.CancelledAt = &now
	if cancelAt != nil {
		at := cancelAt.UTC()
		updated.CancelAt = &at
	} else {
		updated.CancelAt = &now
	}

	if err := s.store.UpdateSubscription(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	s.logger.Info("subscription cancelled", zap.String("subscription_id", id.String()))
	return &updated, nil
}

// Renew extends an active subscription by one interval starting at the current period end.
func (s *SubscriptionService) Renew(ctx context.Context, id uuid.UUID) (*types.Subscription, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != types.SubscriptionActive {
		return nil, apperr.Conflict("subscription", "can only renew active subscriptions")
	}

	end, err := NextPeriodEnd(sub.CurrentPeriodEnd, sub.Interval)
	if err != nil {
		return nil, err
	}

	updated := *sub
	updated.CurrentPeriodStart = sub.CurrentPeriodEnd
	updated.CurrentPeriodEnd = end

	if err := s.store.UpdateSubscription(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to renew subscription: %w", err)
	}
	s.logger.Info("subscription renewed",
		zap.String("subscription_id", id.String()),
		zap.Time("period_end", end),
	)
	return &updated, nil
}

// NextPeriodEnd adds one billing interval to start.
func NextPeriodEnd(start time.Time, interval string) (time.Time, error) {
	switch interval {
	case IntervalMonth:
		return start.AddDate(0, 1, 0), nil
	case IntervalYear:
		return start.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, apperr.Validation("interval", "invalid subscription interval %q", interval)
	}
}

// ChangePlan switches an active subscription to another plan and amount.
func (s *SubscriptionService) ChangePlan(ctx context.Context, id uuid.UUID, req types.ChangePlanRequest) (*types.Subscription, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("subscription", err)
	}

	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != types.SubscriptionActive {
		return nil, apperr.Conflict("subscription", "can only change plan for active subscriptions")
	}

	updated := *sub
	updated.Plan = req.Plan
	updated.Amount = req.Amount

	if err := s.store.UpdateSubscription(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to change subscription plan: %w", err)
	}
	s.logger.Info("subscription plan changed",
		zap.String("subscription_id", id.String()),
		zap.String("plan", req.Plan),
	)
	return &updated, nil
}

// Search applies filters, newest first. The limit defaults to 20.
func (s *SubscriptionService) Search(ctx context.Context, f types.SubscriptionFilters) ([]types.Subscription, error) {
	if f.Limit <= 0 {
		f.Limit = defaultSearchLimit
	}
	list, err := s.store.SearchSubscriptions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to search subscriptions: %w", err)
	}
	return list, nil
}

// Stats summarizes subscriptions, optionally for one subscriber type. Revenue counts ACTIVE ones only.
func (s *SubscriptionService) Stats(ctx context.Context, subscriberType string) (*types.SubscriptionStats, error) {
	list, err := s.store.SearchSubscriptions(ctx, types.SubscriptionFilters{SubscriberType: subscriberType})
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	stats := &types.SubscriptionStats{
		Total:      len(list),
		ByPlan:     map[string]int{},
		ByStatus:   map[string]int{},
		ByInterval: map[string]int{},
	}
	for _, sub := range list {
		stats.ByPlan[sub.Plan]++
		stats.ByStatus[string(sub.Status)]++
		stats.ByInterval[sub.Interval]++
		switch sub.Status {
		case types.SubscriptionActive:
			stats.TotalRevenue += sub.Amount
			stats.ActiveSubscriptions++
		case types.SubscriptionCancelled:
			stats.CancelledSubscriptions++
		}
	}
	return stats, nil
}

// ExpiringWithin returns active subscriptions whose period ends within the next days days.
func (s *SubscriptionService) ExpiringWithin(ctx context.Context, days int) ([]types.Subscription, error) {
	if days <= 0 {
		days = DefaultExpiryWindowDays
	}
	now := s.now().UTC()
	list, err := s.store.SubscriptionsEndingBetween(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("failed to load expiring subscriptions: %w", err)
	}
	s.logger.Info("found expiring subscriptions", zap.Int("count", len(list)), zap.Int("days", days))
	return list, nil
}
