package billing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/types"
)

// memStore backs both billing services in tests.
type memStore struct {
	users         map[uuid.UUID]bool
	teams         map[uuid.UUID]bool
	engagements   map[uuid.UUID]bool
	transactions  map[uuid.UUID]types.Transaction
	subscriptions map[uuid.UUID]types.Subscription
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]bool{},
		teams:         map[uuid.UUID]bool{},
		engagements:   map[uuid.UUID]bool{},
		transactions:  map[uuid.UUID]types.Transaction{},
		subscriptions: map[uuid.UUID]types.Subscription{},
	}
}

func (m *memStore) UserExists(_ context.Context, id uuid.UUID) (bool, error) { return m.users[id], nil }

func (m *memStore) TeamExists(_ context.Context, id uuid.UUID) (bool, error) { return m.teams[id], nil }

func (m *memStore) EngagementExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.engagements[id], nil
}

func (m *memStore) CreateTransaction(_ context.Context, tx *types.Transaction) error {
	m.transactions[tx.ID] = *tx
	return nil
}

func (m *memStore) GetTransaction(_ context.Context, id uuid.UUID) (*types.Transaction, error) {
	tx, ok := m.transactions[id]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (m *memStore) UpdateTransaction(_ context.Context, tx *types.Transaction) error {
	m.transactions[tx.ID] = *tx
	return nil
}

func (m *memStore) SearchTransactions(_ context.Context, f types.TransactionFilters) ([]types.Transaction, error) {
	var out []types.Transaction
	for _, tx := range m.transactions {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Status != "" && string(tx.Status) != f.Status {
			continue
		}
		if f.DateFrom != nil && tx.CreatedAt.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && tx.CreatedAt.After(*f.DateTo) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) CreateSubscription(_ context.Context, sub *types.Subscription) error {
	m.subscriptions[sub.ID] = *sub
	return nil
}

func (m *memStore) GetSubscription(_ context.Context, id uuid.UUID) (*types.Subscription, error) {
	sub, ok := m.subscriptions[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (m *memStore) UpdateSubscription(_ context.Context, sub *types.Subscription) error {
	m.subscriptions[sub.ID] = *sub
	return nil
}

func (m *memStore) ActiveSubscription(_ context.Context, subscriberID uuid.UUID) (*types.Subscription, error) {
	for _, sub := range m.subscriptions {
		if sub.SubscriberID == subscriberID && sub.Status == types.SubscriptionActive {
			return &sub, nil
		}
	}
	return nil, nil
}

func (m *memStore) SearchSubscriptions(_ context.Context, f types.SubscriptionFilters) ([]types.Subscription, error) {
	var out []types.Subscription
	for _, sub := range m.subscriptions {
		if f.SubscriberType != "" && sub.SubscriberType != f.SubscriberType {
			continue
		}
		out = append(out, sub)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) SubscriptionsEndingBetween(_ context.Context, from, to time.Time) ([]types.Subscription, error) {
	var out []types.Subscription
	for _, sub := range m.subscriptions {
		if sub.Status != types.SubscriptionActive {
			continue
		}
		if sub.CurrentPeriodEnd.Before(from) || sub.CurrentPeriodEnd.After(to) {
			continue
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentPeriodEnd.Before(out[j].CurrentPeriodEnd) })
	return out, nil
}
