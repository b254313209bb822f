// Package engagement implements the financial rules of consulting engagements and the service around them.
package engagement

import (
	"time"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/types"
)

// ComputeFee returns totalValue * feePercent / 100, or nil when totalValue is unknown.
// No currency rounding is applied.
func ComputeFee(totalValue *float64, feePercent float64) *float64 {
	if totalValue == nil {
		return nil
	}
	fee := *totalValue * feePercent / 100
	return &fee
}

// ValidateDates fails when both dates are set and start is after end.
func ValidateDates(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return apperr.Validation("start_date", "start date must be before end date")
	}
	return nil
}

// UpsertMilestone returns a copy of milestones with the entry matching id given the new status
// and paid date. Every other entry, and every other field of the matched entry, is unchanged.
func UpsertMilestone(milestones []types.Milestone, id string, status types.MilestoneStatus, paidDate *time.Time) ([]types.Milestone, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status", "invalid milestone status %q", status)
	}

	idx := -1
	for i := range milestones {
		if milestones[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperr.NotFound("milestone", id)
	}

	updated := make([]types.Milestone, len(milestones))
	copy(updated, milestones)
	updated[idx].Status = status
	updated[idx].PaidDate = paidDate
	return updated, nil
}

// CanDelete reports whether an engagement may be removed. Active engagements and
// engagements with linked transactions are kept.
func CanDelete(e types.Engagement, linkedTransactions int) bool {
	return e.Status != types.EngagementActive && linkedTransactions == 0
}

// ValidateAmounts checks the monetary fields and milestone identities of an engagement.
func ValidateAmounts(totalValue *float64, feePercent float64, milestones []types.Milestone) error {
	if totalValue != nil && *totalValue < 0 {
		return apperr.Validation("total_value", "total value must not be negative")
	}
	if feePercent < 0 || feePercent > 100 {
		return apperr.Validation("platform_fee_percent", "platform fee percent must be within [0,100], got %v", feePercent)
	}

	seen := make(map[string]bool, len(milestones))
	for _, m := range milestones {
		if m.ID == "" {
			return apperr.Validation("milestones", "milestone id is required")
		}
		if seen[m.ID] {
			return apperr.Validation("milestones", "duplicate milestone id %q", m.ID)
		}
		seen[m.ID] = true
		if m.Amount < 0 {
			return apperr.Validation("milestones", "milestone %q amount must not be negative", m.ID)
		}
		if m.Status != "" && !m.Status.Valid() {
			return apperr.Validation("milestones", "milestone %q has invalid status %q", m.ID, m.Status)
		}
	}
	return nil
}

// Summarize aggregates engagement statistics.
func Summarize(engagements []types.Engagement) types.EngagementStats {
	stats := types.EngagementStats{
		Total: len(engagements),
		ByStatus: map[types.EngagementStatus]int{
			types.EngagementProposal:  0,
			types.EngagementActive:    0,
			types.EngagementCompleted: 0,
			types.EngagementCancelled: 0,
		},
	}
	for _, e := range engagements {
		if _, known := stats.ByStatus[e.Status]; known {
			stats.ByStatus[e.Status]++
		}
		if e.TotalValue != nil {
			stats.TotalValue += *e.TotalValue
		}
		if e.PlatformFeeAmount != nil {
			stats.TotalPlatformFees += *e.PlatformFeeAmount
			if !e.PlatformFeePaid {
				stats.UnpaidPlatformFees += *e.PlatformFeeAmount
			}
		}
	}
	return stats
}
