//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid request",
			request: CreateUserRequest{
				Username:  "ada_l",
				Email:     "ada@example.com",
				Password:  "password123",
				FirstName: "Ada",
			},
			wantErr: false,
		},
		{
			name: "missing username",
			request: CreateUserRequest{
				Email:    "ada@example.com",
				Password: "password123",
			},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name: "username too short",
			request: CreateUserRequest{
				Username: "ab",
				Email:    "ada@example.com",
				Password: "password123",
			},
			wantErr: true,
			errMsg:  "min",
		},
		{
			name: "invalid email format",
			request: CreateUserRequest{
				Username: "ada_l",
				Email:    "not-an-email",
				Password: "password123",
			},
			wantErr: true,
			errMsg:  "email",
		},
		{
			name: "password too short",
			request: CreateUserRequest{
				Username: "ada_l",
				Email:    "ada@example.com",
				Password: "short",
			},
			wantErr: true,
			errMsg:  "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validation(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "ada@example.com", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "ada@example.com"}).Validate())
	assert.Error(t, (&LoginRequest{Password: "x"}).Validate())
}

func TestUser_JSONOmitsNothingSensitive(t *testing.T) {
	user := User{
		ID:        uuid.New(),
		Username:  "ada_l",
		Email:     "ada@example.com",
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.Contains(t, string(data), `"username":"ada_l"`)
}

func TestEngagementStatus_Valid(t *testing.T) {
	for _, s := range []EngagementStatus{EngagementProposal, EngagementActive, EngagementCompleted, EngagementCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, EngagementStatus("ARCHIVED").Valid())
	assert.False(t, EngagementStatus("").Valid())
}

func TestMilestoneStatus_Valid(t *testing.T) {
	for _, s := range []MilestoneStatus{MilestonePending, MilestoneInProgress, MilestoneCompleted, MilestonePaid} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, MilestoneStatus("LATE").Valid())
}

func TestCreateEngagementRequest_Validation(t *testing.T) {
	total := 1000.0
	badFee := 150.0

	valid := CreateEngagementRequest{
		Title:            "Vision pilot",
		ConsultingFirmID: uuid.New(),
		PricingModel:     "FIXED_PRICE",
		TotalValue:       &total,
	}
	assert.NoError(t, ValidateStruct(valid))

	invalid := valid
	invalid.PlatformFeePercent = &badFee
	assert.Error(t, ValidateStruct(invalid))

	invalid = valid
	invalid.PricingModel = "BARTER"
	assert.Error(t, ValidateStruct(invalid))
}

func TestTeamProfile_HasMember(t *testing.T) {
	member := uuid.New()
	team := TeamProfile{MemberIDs: []uuid.UUID{uuid.New(), member}}

	assert.True(t, team.HasMember(member))
	assert.False(t, team.HasMember(uuid.New()))
	assert.Equal(t, TeamLocation{City: ""}, team.Location())
}

func TestMilestone_JSONFieldNames(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m := Milestone{ID: "m1", Title: "Kickoff", Amount: 250, DueDate: &due, Status: MilestonePending}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dueDate":"2024-06-01T00:00:00Z"`)
	assert.NotContains(t, string(data), "paidDate")
}
