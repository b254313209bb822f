package db

import (
	"github.com/jonathan/hypergigs/internal/billing"
	"github.com/jonathan/hypergigs/internal/education"
	"github.com/jonathan/hypergigs/internal/engagement"
	"github.com/jonathan/hypergigs/internal/suggestion"
	"github.com/jonathan/hypergigs/internal/verification"
)

var (
	_ suggestion.Directory      = (*DB)(nil)
	_ engagement.Store          = (*DB)(nil)
	_ verification.Store        = (*DB)(nil)
	_ verification.TalentStore  = (*DB)(nil)
	_ billing.TransactionStore  = (*DB)(nil)
	_ billing.SubscriptionStore = (*DB)(nil)
	_ education.Store           = (*DB)(nil)
)
