// Package billing records platform transactions and manages subscriptions. Payment gateways are
// not called; their identifiers are stored as given.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/config"
	"github.com/jonathan/hypergigs/internal/logging"
	"github.com/jonathan/hypergigs/internal/schemas"
	"github.com/jonathan/hypergigs/internal/types"
)

const defaultSearchLimit = 20

// failureReasonKey is the metadata key set by Fail.
const failureReasonKey = "failureReason"

// TransactionStore persists transactions.
type TransactionStore interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	TeamExists(ctx context.Context, id uuid.UUID) (bool, error)
	EngagementExists(ctx context.Context, id uuid.UUID) (bool, error)

	CreateTransaction(ctx context.Context, tx *types.Transaction) error
	// GetTransaction returns nil, nil when the transaction does not exist.
	GetTransaction(ctx context.Context, id uuid.UUID) (*types.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *types.Transaction) error
	// SearchTransactions returns matches newest first. Limit <= 0 means no limit.
	SearchTransactions(ctx context.Context, f types.TransactionFilters) ([]types.Transaction, error)
}

// TransactionService records money movements.
type TransactionService struct {
	store    TransactionStore
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewTransactionService creates a transaction service. An empty currency defaults to USD.
func NewTransactionService(store TransactionStore, currency string, logger *zap.Logger) *TransactionService {
	if currency == "" {
		currency = config.DefaultCurrency
	}
	return &TransactionService{store: store, currency: currency, logger: logging.OrNop(logger), now: time.Now}
}

// Create records a transaction. The payout amount is derived from the platform fee when one is given.
func (s *TransactionService) Create(ctx context.Context, req types.CreateTransactionRequest) (*types.Transaction, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("transaction", err)
	}

	if req.PayerID != nil {
		if err := s.requireParty(ctx, "payer", *req.PayerID); err != nil {
			return nil, err
		}
	}
	if req.PayeeID != nil {
		if err := s.requireParty(ctx, "payee", *req.PayeeID); err != nil {
			return nil, err
		}
	}
	if req.EngagementID != nil {
		exists, err := s.store.EngagementExists(ctx, *req.EngagementID)
		if err != nil {
			return nil, fmt.Errorf("failed to load engagement: %w", err)
		}
		if !exists {
			return nil, apperr.NotFound("engagement", req.EngagementID.String())
		}
	}

	if req.Amount <= 0 {
		return nil, apperr.Validation("amount", "amount must be greater than zero")
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	if err := checkMetadata(metadata); err != nil {
		return nil, err
	}

	payout := req.PayoutAmount
	if req.PlatformFee != nil {
		v := req.Amount - *req.PlatformFee
		payout = &v
	}

	tx := &types.Transaction{
		ID:               uuid.New(),
		Type:             req.Type,
		Category:         req.Category,
		PayerID:          req.PayerID,
		PayeeID:          req.PayeeID,
		Amount:           req.Amount,
		Currency:         s.currency,
		PlatformFee:      req.PlatformFee,
		PayoutAmount:     payout,
		EngagementID:     req.EngagementID,
		JobApplicationID: req.JobApplicationID,
		PaymentMethod:    req.PaymentMethod,
		StripePaymentID:  req.StripePaymentID,
		Status:           types.TransactionPending,
		Description:      req.Description,
		Metadata:         metadata,
		CreatedAt:        s.now().UTC(),
	}
	if req.Currency != "" {
		tx.Currency = req.Currency
	}
	if req.Status != "" {
		tx.Status = types.TransactionStatus(req.Status)
	}
	if tx.Status == types.TransactionCompleted {
		completed := tx.CreatedAt
		tx.CompletedAt = &completed
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	s.logger.Info("transaction created", zap.String("transaction_id", tx.ID.String()), zap.String("type", tx.Type))
	return tx, nil
}

// requireParty checks that id names a user or a team.
func (s *TransactionService) requireParty(ctx context.Context, role string, id uuid.UUID) error {
	isUser, err := s.store.UserExists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", role, err)
	}
	if isUser {
		return nil
	}
	isTeam, err := s.store.TeamExists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", role, err)
	}
	if !isTeam {
		return apperr.NotFound(role, id.String())
	}
	return nil
}

// Get returns a transaction by id.
func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*types.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	if tx == nil {
		return nil, apperr.NotFound("transaction", id.String())
	}
	if tx.Metadata == nil {
		tx.Metadata = map[string]any{}
	}
	return tx, nil
}

// Update applies a partial update. A completed transaction may only move to REFUNDED.
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, req types.UpdateTransactionRequest) (*types.Transaction, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("transaction", err)
	}

	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status == types.TransactionCompleted && (req.Status == nil || *req.Status != string(types.TransactionRefunded)) {
		return nil, apperr.Conflict("transaction", "cannot modify completed transaction (only refunds are allowed)")
	}

	updated := *tx
	if req.Status != nil {
		updated.Status = types.TransactionStatus(*req.Status)
		if updated.Status == types.TransactionCompleted && updated.CompletedAt == nil {
			now := s.now().UTC()
			updated.CompletedAt = &now
		}
	}
	if req.StripePaymentID != nil {
		updated.StripePaymentID = *req.StripePaymentID
	}
	if req.PaymentMethod != nil {
		updated.PaymentMethod = *req.PaymentMethod
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Metadata != nil {
		if err := checkMetadata(req.Metadata); err != nil {
			return nil, err
		}
		updated.Metadata = req.Metadata
	}

	if err := s.store.UpdateTransaction(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	s.logger.Info("transaction updated", zap.String("transaction_id", id.String()))
	return &updated, nil
}

// Complete marks a transaction COMPLETED. An empty stripePaymentID keeps the stored one.
func (s *TransactionService) Complete(ctx context.Context, id uuid.UUID, stripePaymentID string) (*types.Transaction, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status == types.TransactionCompleted {
		return nil, apperr.Conflict("transaction", "transaction already completed")
	}

	updated := *tx
	updated.Status = types.TransactionCompleted
	now := s.now().UTC()
	updated.CompletedAt = &now
	if stripePaymentID != "" {
		updated.StripePaymentID = stripePaymentID
	}

	if err := s.store.UpdateTransaction(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to complete transaction: %w", err)
	}
	s.logger.Info("transaction completed", zap.String("transaction_id", id.String()))
	return &updated, nil
}

// Fail marks a transaction FAILED and records the reason in its metadata.
func (s *TransactionService) Fail(ctx context.Context, id uuid.UUID, reason string) (*types.Transaction, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]any, len(tx.Metadata)+1)
	for k, v := range tx.Metadata {
		metadata[k] = v
	}
	if reason != "" {
		metadata[failureReasonKey] = reason
	}
	if err := checkMetadata(metadata); err != nil {
		return nil, err
	}

	updated := *tx
	updated.Status = types.TransactionFailed
	updated.Metadata = metadata

	if err := s.store.UpdateTransaction(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to fail transaction: %w", err)
	}
	s.logger.Info("transaction failed",
		zap.String("transaction_id", id.String()),
		zap.String("reason", reason),
	)
	return &updated, nil
}

// Search applies filters, newest first. The limit defaults to 20.
func (s *TransactionService) Search(ctx context.Context, f types.TransactionFilters) ([]types.Transaction, error) {
	if f.Limit <= 0 {
		f.Limit = defaultSearchLimit
	}
	list, err := s.store.SearchTransactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	return list, nil
}

// Stats summarizes every transaction created in [from, to]. Nil bounds are open.
func (s *TransactionService) Stats(ctx context.Context, from, to *time.Time) (*types.TransactionStats, error) {
	list, err := s.store.SearchTransactions(ctx, types.TransactionFilters{DateFrom: from, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	stats := &types.TransactionStats{
		Total:      len(list),
		ByType:     map[string]int{},
		ByCategory: map[string]int{},
		ByStatus:   map[string]int{},
	}
	for _, tx := range list {
		stats.ByType[tx.Type]++
		stats.ByCategory[tx.Category]++
		stats.ByStatus[string(tx.Status)]++
		stats.TotalAmount += tx.Amount
		if tx.PlatformFee != nil {
			stats.TotalPlatformFees += *tx.PlatformFee
		}
	}
	return stats, nil
}

func checkMetadata(metadata map[string]any) error {
	doc, err := json.Marshal(metadata)
	if err != nil {
		return apperr.Invalid("metadata", err)
	}
	if err := schemas.Validate(schemas.TransactionMetadata, doc); err != nil {
		return apperr.Invalid("metadata", err)
	}
	return nil
}
