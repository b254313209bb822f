package server

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/db"
	"github.com/jonathan/hypergigs/internal/types"
)

// memStore is an in-memory implementation of every store the server wires.
type memStore struct {
	mu sync.Mutex

	users         map[uuid.UUID]*db.User
	teams         map[uuid.UUID]*types.TeamProfile
	candidates    []types.CandidateProfile
	verifications map[uuid.UUID]*types.VerificationRecord
	engagements   map[uuid.UUID]*types.Engagement
	transactions  map[uuid.UUID]*types.Transaction
	subscriptions map[uuid.UUID]*types.Subscription
	education     map[uuid.UUID]*types.Education
	talent        map[uuid.UUID]*types.TalentProfile

	pingErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]*db.User{},
		teams:         map[uuid.UUID]*types.TeamProfile{},
		verifications: map[uuid.UUID]*types.VerificationRecord{},
		engagements:   map[uuid.UUID]*types.Engagement{},
		transactions:  map[uuid.UUID]*types.Transaction{},
		subscriptions: map[uuid.UUID]*types.Subscription{},
		education:     map[uuid.UUID]*types.Education{},
		talent:        map[uuid.UUID]*types.TalentProfile{},
	}
}

// register stores the per-user records created alongside a user row. Callers hold mu.
func (m *memStore) register(id uuid.UUID, username string) {
	m.verifications[id] = &types.VerificationRecord{UserID: id, Status: types.VerificationUnverified}
	m.talent[id] = &types.TalentProfile{
		UserID:             id,
		Username:           username,
		Currency:           "USD",
		AvailabilityStatus: types.AvailabilityAvailable,
		Skills:             []string{},
	}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

// addUser stores a user without a password and returns its id.
func (m *memStore) addUser(username string, isAdmin bool) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.users[id] = &db.User{ID: id, Username: username, Email: username + "@example.com", IsAdmin: isAdmin}
	m.register(id, username)
	return id
}

func (m *memStore) addTeam(team types.TeamProfile) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	m.teams[team.ID] = &team
	return team.ID
}

// ---- users ----

func (m *memStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CheckUsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateUser(_ context.Context, username, email, firstName, lastName string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	now := time.Now().UTC()
	m.users[id] = &db.User{ID: id, Username: username, Email: email, FirstName: firstName, LastName: lastName, CreatedAt: now, UpdatedAt: now}
	m.register(id, username)
	return id, nil
}

func (m *memStore) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UserExists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

// ---- teams ----

func (m *memStore) IsTeamMember(_ context.Context, teamID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	team, ok := m.teams[teamID]
	return ok && team.HasMember(userID), nil
}

func (m *memStore) TeamExists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.teams[id]
	return ok, nil
}

func (m *memStore) GetTeam(_ context.Context, id uuid.UUID) (*types.TeamProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	team, ok := m.teams[id]
	if !ok {
		return nil, nil
	}
	cp := *team
	return &cp, nil
}

func (m *memStore) ListCandidates(_ context.Context, excludeIDs []uuid.UUID, limit int) ([]types.CandidateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	excluded := make(map[uuid.UUID]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []types.CandidateProfile
	for _, c := range m.candidates {
		if excluded[c.ID] {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ---- verification ----

func (m *memStore) GetVerification(_ context.Context, userID uuid.UUID) (*types.VerificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.verifications[userID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *memStore) UpdateVerificationScores(_ context.Context, userID uuid.UUID, scores types.VerificationScoreSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.verifications[userID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	rec.Scores = scores
	return nil
}

func (m *memStore) UpdateVerification(_ context.Context, rec *types.VerificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.verifications[rec.UserID] = &cp
	return nil
}

// ---- engagements ----

func (m *memStore) CreateEngagement(_ context.Context, e *types.Engagement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.engagements[e.ID] = &cp
	return nil
}

func (m *memStore) GetEngagement(_ context.Context, id uuid.UUID) (*types.Engagement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.engagements[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) EngagementExists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.engagements[id]
	return ok, nil
}

func (m *memStore) SearchEngagements(_ context.Context, f types.EngagementFilters) ([]types.Engagement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Engagement
	for _, e := range m.engagements {
		if f.ConsultingFirmID != nil && e.ConsultingFirmID != *f.ConsultingFirmID {
			continue
		}
		if f.ClientID != nil && (e.ClientID == nil || *e.ClientID != *f.ClientID) {
			continue
		}
		if f.Status != "" && string(e.Status) != f.Status {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) UpdateEngagement(_ context.Context, e *types.Engagement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.engagements[e.ID]; !ok {
		return fmt.Errorf("engagement not found")
	}
	cp := *e
	m.engagements[e.ID] = &cp
	return nil
}

func (m *memStore) DeleteEngagement(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engagements, id)
	return nil
}

func (m *memStore) CountEngagementTransactions(_ context.Context, engagementID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, tx := range m.transactions {
		if tx.EngagementID != nil && *tx.EngagementID == engagementID {
			n++
		}
	}
	return n, nil
}

// ---- transactions ----

func (m *memStore) CreateTransaction(_ context.Context, tx *types.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tx
	m.transactions[tx.ID] = &cp
	return nil
}

func (m *memStore) GetTransaction(_ context.Context, id uuid.UUID) (*types.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

func (m *memStore) UpdateTransaction(_ context.Context, tx *types.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tx
	m.transactions[tx.ID] = &cp
	return nil
}

func (m *memStore) SearchTransactions(_ context.Context, f types.TransactionFilters) ([]types.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Transaction
	for _, tx := range m.transactions {
		switch {
		case f.PayerID != nil && (tx.PayerID == nil || *tx.PayerID != *f.PayerID):
			continue
		case f.PayeeID != nil && (tx.PayeeID == nil || *tx.PayeeID != *f.PayeeID):
			continue
		case f.EngagementID != nil && (tx.EngagementID == nil || *tx.EngagementID != *f.EngagementID):
			continue
		case f.Status != "" && string(tx.Status) != f.Status:
			continue
		case f.Type != "" && tx.Type != f.Type:
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

// ---- subscriptions ----

func (m *memStore) CreateSubscription(_ context.Context, sub *types.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.subscriptions[sub.ID] = &cp
	return nil
}

func (m *memStore) GetSubscription(_ context.Context, id uuid.UUID) (*types.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subscriptions[id]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (m *memStore) UpdateSubscription(_ context.Context, sub *types.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.subscriptions[sub.ID] = &cp
	return nil
}

func (m *memStore) ActiveSubscription(_ context.Context, subscriberID uuid.UUID) (*types.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subscriptions {
		if sub.SubscriberID == subscriberID && sub.Status == types.SubscriptionActive {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) SearchSubscriptions(_ context.Context, f types.SubscriptionFilters) ([]types.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Subscription
	for _, sub := range m.subscriptions {
		switch {
		case f.SubscriberID != nil && sub.SubscriberID != *f.SubscriberID:
			continue
		case f.SubscriberType != "" && sub.SubscriberType != f.SubscriberType:
			continue
		case f.Status != "" && string(sub.Status) != f.Status:
			continue
		}
		out = append(out, *sub)
	}
	return out, nil
}

func (m *memStore) SubscriptionsEndingBetween(_ context.Context, from, to time.Time) ([]types.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Subscription
	for _, sub := range m.subscriptions {
		end := sub.CurrentPeriodEnd
		if sub.Status == types.SubscriptionActive && !end.Before(from) && !end.After(to) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

// ---- education ----

func (m *memStore) ListEducation(_ context.Context, userID uuid.UUID) ([]types.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Education
	for _, e := range m.education {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) GetEducation(_ context.Context, id uuid.UUID) (*types.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.education[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) CreateEducation(_ context.Context, e *types.Education) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.education[e.ID] = &cp
	return nil
}

func (m *memStore) UpdateEducation(_ context.Context, e *types.Education) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.education[e.ID] = &cp
	return nil
}

func (m *memStore) DeleteEducation(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.education, id)
	return nil
}

// ---- talent ----

// talentView overlays the verification record onto a stored profile. Callers hold mu.
func (m *memStore) talentView(p *types.TalentProfile) types.TalentProfile {
	cp := *p
	if rec, ok := m.verifications[p.UserID]; ok {
		cp.VerificationStatus = rec.Status
		cp.VerificationTier = rec.Tier
		cp.Scores = rec.Scores
	}
	return cp
}

func (m *memStore) GetTalentProfile(_ context.Context, userID uuid.UUID) (*types.TalentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.talent[userID]
	if !ok {
		return nil, nil
	}
	cp := m.talentView(p)
	return &cp, nil
}

func (m *memStore) UpdateTalentProfile(_ context.Context, p *types.TalentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.talent[p.UserID]; !ok {
		return fmt.Errorf("user not found")
	}
	cp := *p
	m.talent[p.UserID] = &cp
	return nil
}

func (m *memStore) SearchTalent(_ context.Context, f types.TalentFilter) ([]types.TalentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.TalentProfile{}
	for _, stored := range m.talent {
		p := m.talentView(stored)
		switch {
		case !p.IsAITalent:
			continue
		case f.TalentRole != "" && p.TalentRole != f.TalentRole:
			continue
		case f.TalentTier != "" && string(p.TalentTier) != f.TalentTier:
			continue
		case f.VerificationStatus != "" && string(p.VerificationStatus) != f.VerificationStatus:
			continue
		case f.AvailabilityStatus != "" && string(p.AvailabilityStatus) != f.AvailabilityStatus:
			continue
		case f.MinHourlyRate != nil && (p.HourlyRate == nil || *p.HourlyRate < *f.MinHourlyRate):
			continue
		case f.MaxHourlyRate != nil && (p.HourlyRate == nil || *p.HourlyRate > *f.MaxHourlyRate):
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.VerificationStatus.Rank() != b.VerificationStatus.Rank() {
			return a.VerificationStatus.Rank() > b.VerificationStatus.Rank()
		}
		if a.Scores.OverallScore != b.Scores.OverallScore {
			return a.Scores.OverallScore > b.Scores.OverallScore
		}
		return a.UserID.String() < b.UserID.String()
	})
	if f.Offset >= len(out) {
		return []types.TalentProfile{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) TalentStats(context.Context) (*types.TalentStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &types.TalentStats{Breakdown: []types.TalentBreakdown{}}
	total := 0
	for _, stored := range m.talent {
		p := m.talentView(stored)
		if !p.IsAITalent {
			continue
		}
		stats.TotalTalent++
		if p.VerificationStatus.IsVerified() {
			stats.VerifiedTalent++
		}
		if p.AvailabilityStatus == types.AvailabilityAvailable {
			stats.AvailableTalent++
		}
		total += p.Scores.OverallScore
	}
	if stats.TotalTalent > 0 {
		stats.AverageOverall = float64(total) / float64(stats.TotalTalent)
	}
	return stats, nil
}
