package types

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionRefunded  TransactionStatus = "REFUNDED"
)

// Transaction records a money movement on the platform. Payment-gateway ids are stored only.
type Transaction struct {
	ID               uuid.UUID         `json:"id"`
	Type             string            `json:"type"`
	Category         string            `json:"category"`
	PayerID          *uuid.UUID        `json:"payer_id,omitempty"`
	PayeeID          *uuid.UUID        `json:"payee_id,omitempty"`
	Amount           float64           `json:"amount"`
	Currency         string            `json:"currency"`
	PlatformFee      *float64          `json:"platform_fee,omitempty"`
	PayoutAmount     *float64          `json:"payout_amount,omitempty"`
	EngagementID     *uuid.UUID        `json:"engagement_id,omitempty"`
	JobApplicationID *uuid.UUID        `json:"job_application_id,omitempty"`
	PaymentMethod    string            `json:"payment_method,omitempty"`
	StripePaymentID  string            `json:"stripe_payment_id,omitempty"`
	Status           TransactionStatus `json:"status"`
	Description      string            `json:"description,omitempty"`
	Metadata         map[string]any    `json:"metadata"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// CreateTransactionRequest is the input for recording a transaction.
type CreateTransactionRequest struct {
	Type             string         `json:"type" validate:"required,oneof=PAYMENT PAYOUT REFUND FEE SUBSCRIPTION"`
	Category         string         `json:"category" validate:"required"`
	PayerID          *uuid.UUID     `json:"payer_id,omitempty"`
	PayeeID          *uuid.UUID     `json:"payee_id,omitempty"`
	Amount           float64        `json:"amount"`
	Currency         string         `json:"currency,omitempty" validate:"omitempty,len=3"`
	PlatformFee      *float64       `json:"platform_fee,omitempty" validate:"omitempty,gte=0"`
	PayoutAmount     *float64       `json:"payout_amount,omitempty"`
	EngagementID     *uuid.UUID     `json:"engagement_id,omitempty"`
	JobApplicationID *uuid.UUID     `json:"job_application_id,omitempty"`
	PaymentMethod    string         `json:"payment_method,omitempty"`
	StripePaymentID  string         `json:"stripe_payment_id,omitempty"`
	Status           string         `json:"status,omitempty" validate:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	Description      string         `json:"description,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// UpdateTransactionRequest is a partial transaction update.
type UpdateTransactionRequest struct {
	Status          *string        `json:"status,omitempty" validate:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	StripePaymentID *string        `json:"stripe_payment_id,omitempty"`
	PaymentMethod   *string        `json:"payment_method,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// TransactionFilters narrows a transaction search.
type TransactionFilters struct {
	Type         string
	Category     string
	PayerID      *uuid.UUID
	PayeeID      *uuid.UUID
	Status       string
	EngagementID *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

// TransactionStats summarizes transactions for the admin dashboard.
type TransactionStats struct {
	Total             int            `json:"total"`
	ByType            map[string]int `json:"by_type"`
	ByCategory        map[string]int `json:"by_category"`
	ByStatus          map[string]int `json:"by_status"`
	TotalAmount       float64        `json:"total_amount"`
	TotalPlatformFees float64        `json:"total_platform_fees"`
}

// SubscriptionStatus is the billing state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionPastDue   SubscriptionStatus = "PAST_DUE"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
)

// Subscription is a recurring plan held by a user or a team.
type Subscription struct {
	ID                   uuid.UUID          `json:"id"`
	SubscriberID         uuid.UUID          `json:"subscriber_id"`
	SubscriberType       string             `json:"subscriber_type"`
	Plan                 string             `json:"plan"`
	Status               SubscriptionStatus `json:"status"`
	Amount               float64            `json:"amount"`
	Currency             string             `json:"currency"`
	Interval             string             `json:"interval"`
	StripeSubscriptionID string             `json:"stripe_subscription_id,omitempty"`
	StripeCustomerID     string             `json:"stripe_customer_id,omitempty"`
	CurrentPeriodStart   time.Time          `json:"current_period_start"`
	CurrentPeriodEnd     time.Time          `json:"current_period_end"`
	CancelAt             *time.Time         `json:"cancel_at,omitempty"`
	CancelledAt          *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
}

// CreateSubscriptionRequest is the input for starting a subscription.
type CreateSubscriptionRequest struct {
	SubscriberID         uuid.UUID `json:"subscriber_id" validate:"required"`
	SubscriberType       string    `json:"subscriber_type" validate:"required"`
	Plan                 string    `json:"plan" validate:"required"`
	Status               string    `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE PAST_DUE CANCELLED"`
	Amount               float64   `json:"amount" validate:"gte=0"`
	Currency             string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	Interval             string    `json:"interval,omitempty" validate:"omitempty,oneof=MONTH YEAR"`
	StripeSubscriptionID string    `json:"stripe_subscription_id,omitempty"`
	StripeCustomerID     string    `json:"stripe_customer_id,omitempty"`
	CurrentPeriodStart   time.Time `json:"current_period_start" validate:"required"`
	CurrentPeriodEnd     time.Time `json:"current_period_end" validate:"required"`
}

// ChangePlanRequest switches an active subscription to another plan.
type ChangePlanRequest struct {
	Plan   string  `json:"plan" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

// SubscriptionStats summarizes subscriptions for the admin dashboard.
type SubscriptionStats struct {
	Total                  int            `json:"total"`
	ByPlan                 map[string]int `json:"by_plan"`
	ByStatus               map[string]int `json:"by_status"`
	ByInterval             map[string]int `json:"by_interval"`
	TotalRevenue           float64        `json:"total_revenue"`
	ActiveSubscriptions    int            `json:"active_subscriptions"`
	CancelledSubscriptions int            `json:"cancelled_subscriptions"`
}

// SubscriptionFilters narrows a subscription search.
type SubscriptionFilters struct {
	SubscriberID   *uuid.UUID
	SubscriberType string
	Plan           string
	Status         string
	Limit          int
	Offset         int
}
