package education

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/types"
)

type memStore struct {
	records map[uuid.UUID]types.Education
}

func (m *memStore) ListEducation(_ context.Context, userID uuid.UUID) ([]types.Education, error) {
	var out []types.Education
	for _, e := range m.records {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate == nil || out[j].StartDate == nil {
			return out[j].StartDate == nil && out[i].StartDate != nil
		}
		return out[i].StartDate.After(*out[j].StartDate)
	})
	return out, nil
}

func (m *memStore) GetEducation(_ context.Context, id uuid.UUID) (*types.Education, error) {
	e, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memStore) CreateEducation(_ context.Context, e *types.Education) error {
	m.records[e.ID] = *e
	return nil
}

func (m *memStore) UpdateEducation(_ context.Context, e *types.Education) error {
	m.records[e.ID] = *e
	return nil
}

func (m *memStore) DeleteEducation(_ context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

var today = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func str(v string) *string { return &v }
func flag(v bool) *bool    { return &v }
func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := &memStore{records: map[uuid.UUID]types.Education{}}
	svc := NewService(store, zaptest.NewLogger(t))
	svc.now = func() time.Time { return today }
	return svc, store
}

func mscRequest() types.EducationRequest {
	return types.EducationRequest{
		Institution:  str("ETH Zurich"),
		Degree:       str("MSc"),
		FieldOfStudy: str("Computer Vision"),
		StartDate:    day(2018, 9, 1),
		EndDate:      day(2020, 7, 1),
	}
}

func TestValidateDates(t *testing.T) {
	tests := []struct {
		name    string
		start   *time.Time
		end     *time.Time
		wantErr bool
	}{
		{"both nil", nil, nil, false},
		{"ordered", day(2020, 1, 1), day(2021, 1, 1), false},
		{"same day", day(2020, 1, 1), day(2020, 1, 1), false},
		{"reversed", day(2021, 1, 1), day(2020, 1, 1), true},
		{"start in the future", day(2030, 1, 1), nil, true},
		{"start today", &today, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDates(tt.start, tt.end, today)
			if tt.wantErr {
				assert.True(t, apperr.Is(err, apperr.KindValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_Create(t *testing.T) {
	svc, store := newTestService(t)
	userID := uuid.New()

	e, err := svc.Create(context.Background(), userID, mscRequest())
	require.NoError(t, err)
	assert.Equal(t, userID, e.UserID)
	assert.False(t, e.Present)
	assert.Contains(t, store.records, e.ID)
}

func TestService_CreateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *types.EducationRequest)
	}{
		{"present with end date", func(r *types.EducationRequest) { r.Present = flag(true) }},
		{"future start", func(r *types.EducationRequest) { r.StartDate = day(2030, 1, 1); r.EndDate = nil }},
		{"end before start", func(r *types.EducationRequest) { r.EndDate = day(2017, 1, 1) }},
		{"missing institution", func(r *types.EducationRequest) { r.Institution = nil }},
		{"missing degree", func(r *types.EducationRequest) { r.Degree = str("") }},
		{"gpa out of range", func(r *types.EducationRequest) { gpa := 7.5; r.GPA = &gpa }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			req := mscRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), uuid.New(), req)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
			assert.Empty(t, store.records)
		})
	}
}

func TestService_UpdateOwnership(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	e, err := svc.Create(ctx, owner, mscRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, e.ID, uuid.New(), types.EducationRequest{Degree: str("PhD")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = svc.Delete(ctx, e.ID, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Contains(t, store.records, e.ID)

	require.NoError(t, svc.Delete(ctx, e.ID, owner))
	assert.NotContains(t, store.records, e.ID)
}

func TestService_UpdatePresentClearsEndDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	e, err := svc.Create(ctx, owner, mscRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, e.ID, owner, types.EducationRequest{Present: flag(true)})
	require.NoError(t, err)
	assert.True(t, updated.Present)
	assert.Nil(t, updated.EndDate)

	updated, err = svc.Update(ctx, e.ID, owner, types.EducationRequest{EndDate: day(2021, 1, 1)})
	require.NoError(t, err)
	assert.False(t, updated.Present)

	_, err = svc.Update(ctx, e.ID, owner, types.EducationRequest{EndDate: day(2010, 1, 1)})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "end date is checked against the stored start date")
}

func TestService_ListAndStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.Create(ctx, owner, mscRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, types.EducationRequest{
		Institution: str("ETH Zurich"), Degree: str("PhD"), FieldOfStudy: str("Computer Vision"),
		StartDate: day(2020, 9, 1), Present: flag(true),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), mscRequest())
	require.NoError(t, err)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "PhD", list[0].Degree, "most recent first")

	stats, err := svc.Stats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, []string{"PhD", "MSc"}, stats.Degrees)
	assert.Equal(t, []string{"Computer Vision"}, stats.Fields)
	assert.Equal(t, []string{"ETH Zurich"}, stats.Institutions)
}
