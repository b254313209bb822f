package types

import (
	"time"

	"github.com/google/uuid"
)

// EngagementStatus is the lifecycle state of an engagement.
type EngagementStatus string

const (
	EngagementProposal  EngagementStatus = "PROPOSAL"
	EngagementActive    EngagementStatus = "ACTIVE"
	EngagementCompleted EngagementStatus = "COMPLETED"
	EngagementCancelled EngagementStatus = "CANCELLED"
)

// Valid reports whether s is a known engagement status.
func (s EngagementStatus) Valid() bool {
	switch s {
	case EngagementProposal, EngagementActive, EngagementCompleted, EngagementCancelled:
		return true
	}
	return false
}

// MilestoneStatus is the payment/completion state of a milestone.
type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "PENDING"
	MilestoneInProgress MilestoneStatus = "IN_PROGRESS"
	MilestoneCompleted  MilestoneStatus = "COMPLETED"
	MilestonePaid       MilestoneStatus = "PAID"
)

// Valid reports whether s is a known milestone status.
func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestonePending, MilestoneInProgress, MilestoneCompleted, MilestonePaid:
		return true
	}
	return false
}

// Milestone is a sub-unit of an engagement's value. Ids are unique within one engagement.
type Milestone struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      float64         `json:"amount"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Status      MilestoneStatus `json:"status"`
	PaidDate    *time.Time      `json:"paidDate,omitempty"`
}

// Engagement is a contract between a consulting firm and a client.
type Engagement struct {
	ID                 uuid.UUID        `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	ClientName         string           `json:"client_name,omitempty"`
	ConsultingFirmID   uuid.UUID        `json:"consulting_firm_id"`
	ClientID           *uuid.UUID       `json:"client_id,omitempty"`
	Status             EngagementStatus `json:"status"`
	PricingModel       string           `json:"pricing_model"`
	DeliveryModel      string           `json:"delivery_model,omitempty"`
	Currency           string           `json:"currency"`
	TotalValue         *float64         `json:"total_value,omitempty"`
	PlatformFeePercent float64          `json:"platform_fee_percent"`
	PlatformFeeAmount  *float64         `json:"platform_fee_amount,omitempty"`
	PlatformFeePaid    bool             `json:"platform_fee_paid"`
	StartDate          *time.Time       `json:"start_date,omitempty"`
	EndDate            *time.Time       `json:"end_date,omitempty"`
	Duration           *int             `json:"duration,omitempty"`
	Milestones         []Milestone      `json:"milestones"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CreateEngagementRequest is the input for creating an engagement.
type CreateEngagementRequest struct {
	Title              string      `json:"title" validate:"required,min=1,max=200"`
	Description        string      `json:"description,omitempty"`
	ClientName         string      `json:"client_name,omitempty"`
	ConsultingFirmID   uuid.UUID   `json:"consulting_firm_id" validate:"required"`
	ClientID           *uuid.UUID  `json:"client_id,omitempty"`
	Status             string      `json:"status,omitempty" validate:"omitempty,oneof=PROPOSAL ACTIVE COMPLETED CANCELLED"`
	PricingModel       string      `json:"pricing_model" validate:"required,oneof=FIXED_PRICE TIME_MATERIAL STAFF_AUG MANAGED_SERVICES HYBRID"`
	DeliveryModel      string      `json:"delivery_model,omitempty" validate:"omitempty,oneof=ONSITE NEARSHORE OFFSHORE HYBRID"`
	Currency           string      `json:"currency,omitempty" validate:"omitempty,len=3"`
	TotalValue         *float64    `json:"total_value,omitempty" validate:"omitempty,gte=0"`
	PlatformFeePercent *float64    `json:"platform_fee_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	StartDate          *time.Time  `json:"start_date,omitempty"`
	EndDate            *time.Time  `json:"end_date,omitempty"`
	Duration           *int        `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Milestones         []Milestone `json:"milestones,omitempty"`
}

// UpdateEngagementRequest is a partial update; nil fields are left untouched.
type UpdateEngagementRequest struct {
	Title              *string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description        *string     `json:"description,omitempty"`
	ClientName         *string     `json:"client_name,omitempty"`
	ClientID           *uuid.UUID  `json:"client_id,omitempty"`
	Status             *string     `json:"status,omitempty" validate:"omitempty,oneof=PROPOSAL ACTIVE COMPLETED CANCELLED"`
	PricingModel       *string     `json:"pricing_model,omitempty" validate:"omitempty,oneof=FIXED_PRICE TIME_MATERIAL STAFF_AUG MANAGED_SERVICES HYBRID"`
	DeliveryModel      *string     `json:"delivery_model,omitempty" validate:"omitempty,oneof=ONSITE NEARSHORE OFFSHORE HYBRID"`
	Currency           *string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	TotalValue         *float64    `json:"total_value,omitempty" validate:"omitempty,gte=0"`
	PlatformFeePercent *float64    `json:"platform_fee_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	PlatformFeePaid    *bool       `json:"platform_fee_paid,omitempty"`
	StartDate          *time.Time  `json:"start_date,omitempty"`
	EndDate            *time.Time  `json:"end_date,omitempty"`
	Duration           *int        `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Milestones         []Milestone `json:"milestones,omitempty"`
}

// UpdateMilestoneRequest changes the status of one milestone.
type UpdateMilestoneRequest struct {
	Status   string     `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED PAID"`
	PaidDate *time.Time `json:"paid_date,omitempty"`
}

// EngagementFilters narrows an engagement search.
type EngagementFilters struct {
	ConsultingFirmID *uuid.UUID
	ClientID         *uuid.UUID
	Status           string
	PricingModel     string
	StartDateFrom    *time.Time
	StartDateTo      *time.Time
	Limit            int
	Offset           int
}

// EngagementStats summarizes a firm's engagements.
type EngagementStats struct {
	Total              int                      `json:"total"`
	ByStatus           map[EngagementStatus]int `json:"by_status"`
	TotalValue         float64                  `json:"total_value"`
	TotalPlatformFees  float64                  `json:"total_platform_fees"`
	UnpaidPlatformFees float64                  `json:"unpaid_platform_fees"`
}
