package engagement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/cache"
	"github.com/jonathan/hypergigs/internal/config"
	"github.com/jonathan/hypergigs/internal/logging"
	"github.com/jonathan/hypergigs/internal/schemas"
	"github.com/jonathan/hypergigs/internal/types"
)

// defaultSearchLimit is used when a search does not set a limit.
const defaultSearchLimit = 20

// Store persists engagements.
type Store interface {
	// GetTeam returns nil, nil when the team does not exist.
	GetTeam(ctx context.Context, id uuid.UUID) (*types.TeamProfile, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)

	CreateEngagement(ctx context.Context, e *types.Engagement) error
	// GetEngagement returns nil, nil when the engagement does not exist.
	GetEngagement(ctx context.Context, id uuid.UUID) (*types.Engagement, error)
	// SearchEngagements returns matches newest first. Limit <= 0 means no limit.
	SearchEngagements(ctx context.Context, f types.EngagementFilters) ([]types.Engagement, error)
	UpdateEngagement(ctx context.Context, e *types.Engagement) error
	DeleteEngagement(ctx context.Context, id uuid.UUID) error
	CountEngagementTransactions(ctx context.Context, engagementID uuid.UUID) (int, error)
}

// Options holds the defaults applied to new engagements.
type Options struct {
	PlatformFeePercent float64
	Currency           string
	StatsTTL           time.Duration
}

// OptionsFrom reads the options from config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		PlatformFeePercent: cfg.Marketplace.PlatformFeePercent,
		Currency:           cfg.Marketplace.DefaultCurrency,
		StatsTTL:           cfg.Redis.StatsTTL,
	}
}

// Service manages engagements of consulting firms.
type Service struct {
	store  Store
	cache  cache.Cache
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an engagement service. A nil cache disables stats caching.
func NewService(store Store, c cache.Cache, opts Options, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	if opts.Currency == "" {
		opts.Currency = config.DefaultCurrency
	}
	if opts.StatsTTL <= 0 {
		opts.StatsTTL = config.DefaultStatsCacheTTL
	}
	return &Service{store: store, cache: c, opts: opts, logger: logging.OrNop(logger), now: time.Now}
}

func statsKey(firmID uuid.UUID) string {
	return "engagement_stats:" + firmID.String()
}

// Create validates and stores a new engagement in PROPOSAL status unless another status is given.
func (s *Service) Create(ctx context.Context, req types.CreateEngagementRequest) (*types.Engagement, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("engagement", err)
	}

	firm, err := s.store.GetTeam(ctx, req.ConsultingFirmID)
	if err != nil {
		return nil, fmt.Errorf("failed to load consulting firm: %w", err)
	}
	if firm == nil {
		return nil, apperr.NotFound("consulting firm", req.ConsultingFirmID.String())
	}
	if !firm.IsConsultingFirm {
		return nil, apperr.Validation("consulting_firm_id", "team is not registered as a consulting firm")
	}

	if req.ClientID != nil {
		exists, err := s.store.UserExists(ctx, *req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to load client: %w", err)
		}
		if !exists {
			return nil, apperr.NotFound("client", req.ClientID.String())
		}
	}

	if err := ValidateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	feePercent := s.opts.PlatformFeePercent
	if req.PlatformFeePercent != nil {
		feePercent = *req.PlatformFeePercent
	}
	milestones := normalizeMilestones(req.Milestones)
	if err := s.checkMilestones(req.TotalValue, feePercent, milestones); err != nil {
		return nil, err
	}

	status := types.EngagementProposal
	if req.Status != "" {
		status = types.EngagementStatus(req.Status)
	}
	currency := s.opts.Currency
	if req.Currency != "" {
		currency = req.Currency
	}

	now := s.now().UTC()
	e := &types.Engagement{
		ID:                 uuid.New(),
		Title:              req.Title,
		Description:        req.Description,
		ClientName:         req.ClientName,
		ConsultingFirmID:   req.ConsultingFirmID,
		ClientID:           req.ClientID,
		Status:             status,
		PricingModel:       req.PricingModel,
		DeliveryModel:      req.DeliveryModel,
		Currency:           currency,
		TotalValue:         req.TotalValue,
		PlatformFeePercent: feePercent,
		PlatformFeeAmount:  ComputeFee(req.TotalValue, feePercent),
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Duration:           req.Duration,
		Milestones:         milestones,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.store.CreateEngagement(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create engagement: %w", err)
	}
	s.invalidateStats(ctx, e.ConsultingFirmID)

	s.logger.Info("engagement created",
		zap.String("engagement_id", e.ID.String()),
		zap.String("firm_id", e.ConsultingFirmID.String()),
	)
	return e, nil
}

// Get returns an engagement by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*types.Engagement, error) {
	e, err := s.store.GetEngagement(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement: %w", err)
	}
	if e == nil {
		return nil, apperr.NotFound("engagement", id.String())
	}
	return e, nil
}

// ListByFirm returns every engagement of a consulting firm, newest first.
func (s *Service) ListByFirm(ctx context.Context, firmID uuid.UUID) ([]types.Engagement, error) {
	list, err := s.store.SearchEngagements(ctx, types.EngagementFilters{ConsultingFirmID: &firmID})
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	s.logger.Debug("listed engagements for firm", zap.String("firm_id", firmID.String()), zap.Int("count", len(list)))
	return list, nil
}

// ListByClient returns every engagement of a client, newest first.
func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]types.Engagement, error) {
	list, err := s.store.SearchEngagements(ctx, types.EngagementFilters{ClientID: &clientID})
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	return list, nil
}

// Search applies filters. The limit defaults to 20.
func (s *Service) Search(ctx context.Context, f types.EngagementFilters) ([]types.Engagement, error) {
	if f.Limit <= 0 {
		f.Limit = defaultSearchLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Status != "" && !types.EngagementStatus(f.Status).Valid() {
		return nil, apperr.Validation("status", "invalid engagement status %q", f.Status)
	}
	list, err := s.store.SearchEngagements(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to search engagements: %w", err)
	}
	return list, nil
}

// owned loads an engagement and checks it belongs to firmID. A foreign engagement is reported as missing.
func (s *Service) owned(ctx context.Context, id, firmID uuid.UUID) (*types.Engagement, error) {
	e, err := s.store.GetEngagement(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement: %w", err)
	}
	if e == nil || e.ConsultingFirmID != firmID {
		return nil, apperr.NotFound("engagement", id.String())
	}
	return e, nil
}

// Update applies a partial update. The platform fee is recomputed whenever the total value or
// the fee percent changes.
func (s *Service) Update(ctx context.Context, id, firmID uuid.UUID, req types.UpdateEngagementRequest) (*types.Engagement, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("engagement", err)
	}

	e, err := s.owned(ctx, id, firmID)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil && (e.ClientID == nil || *e.ClientID != *req.ClientID) {
		exists, err := s.store.UserExists(ctx, *req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to load client: %w", err)
		}
		if !exists {
			return nil, apperr.NotFound("client", req.ClientID.String())
		}
	}

	updated := *e
	applyUpdate(&updated, req)

	if err := ValidateDates(updated.StartDate, updated.EndDate); err != nil {
		return nil, err
	}
	if req.Milestones != nil {
		updated.Milestones = normalizeMilestones(req.Milestones)
	}
	if err := s.checkMilestones(updated.TotalValue, updated.PlatformFeePercent, updated.Milestones); err != nil {
		return nil, err
	}
	if req.TotalValue != nil || req.PlatformFeePercent != nil {
		updated.PlatformFeeAmount = ComputeFee(updated.TotalValue, updated.PlatformFeePercent)
	}
	updated.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateEngagement(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update engagement: %w", err)
	}
	s.invalidateStats(ctx, firmID)
	return &updated, nil
}

func applyUpdate(e *types.Engagement, req types.UpdateEngagementRequest) {
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.ClientName != nil {
		e.ClientName = *req.ClientName
	}
	if req.ClientID != nil {
		id := *req.ClientID
		e.ClientID = &id
	}
	if req.Status != nil {
		e.Status = types.EngagementStatus(*req.Status)
	}
	if req.PricingModel != nil {
		e.PricingModel = *req.PricingModel
	}
	if req.DeliveryModel != nil {
		e.DeliveryModel = *req.DeliveryModel
	}
	if req.Currency != nil {
		e.Currency = *req.Currency
	}
	if req.TotalValue != nil {
		v := *req.TotalValue
		e.TotalValue = &v
	}
	if req.PlatformFeePercent != nil {
		e.PlatformFeePercent = *req.PlatformFeePercent
	}
	if req.PlatformFeePaid != nil {
		e.PlatformFeePaid = *req.PlatformFeePaid
	}
	if req.StartDate != nil {
		e.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = req.EndDate
	}
	if req.Duration != nil {
		e.Duration = req.Duration
	}
}

// Delete removes an engagement unless it is active or has transactions.
func (s *Service) Delete(ctx context.Context, id, firmID uuid.UUID) error {
	e, err := s.owned(ctx, id, firmID)
	if err != nil {
		return err
	}

	linked, err := s.store.CountEngagementTransactions(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count engagement transactions: %w", err)
	}
	if !CanDelete(*e, linked) {
		if e.Status == types.EngagementActive {
			return apperr.Conflict("engagement", "cannot delete active engagement, cancel it first")
		}
		return apperr.Conflict("engagement", "cannot delete engagement with %d existing transactions", linked)
	}

	if err := s.store.DeleteEngagement(ctx, id); err != nil {
		return fmt.Errorf("failed to delete engagement: %w", err)
	}
	s.invalidateStats(ctx, firmID)
	s.logger.Info("engagement deleted", zap.String("engagement_id", id.String()))
	return nil
}

// UpdateMilestone changes the status and paid date of one milestone.
func (s *Service) UpdateMilestone(ctx context.Context, id, firmID uuid.UUID, milestoneID string, req types.UpdateMilestoneRequest) (*types.Engagement, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, apperr.Invalid("milestone", err)
	}

	e, err := s.owned(ctx, id, firmID)
	if err != nil {
		return nil, err
	}

	milestones, err := UpsertMilestone(e.Milestones, milestoneID, types.MilestoneStatus(req.Status), req.PaidDate)
	if err != nil {
		return nil, err
	}

	updated := *e
	updated.Milestones = milestones
	updated.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateEngagement(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}
	return &updated, nil
}

// Stats summarizes a firm's engagements. Results are cached until the next write for the firm.
func (s *Service) Stats(ctx context.Context, firmID uuid.UUID) (*types.EngagementStats, error) {
	var cached types.EngagementStats
	found, err := s.cache.GetJSON(ctx, statsKey(firmID), &cached)
	if err != nil {
		s.logger.Warn("engagement stats cache read failed", zap.Error(err))
	}
	if found {
		return &cached, nil
	}

	list, err := s.store.SearchEngagements(ctx, types.EngagementFilters{ConsultingFirmID: &firmID})
	if err != nil {
		return nil, fmt.Errorf("failed to load engagements: %w", err)
	}
	stats := Summarize(list)

	if err := s.cache.SetJSON(ctx, statsKey(firmID), stats, s.opts.StatsTTL); err != nil {
		s.logger.Warn("engagement stats cache write failed", zap.Error(err))
	}
	return &stats, nil
}

func (s *Service) invalidateStats(ctx context.Context, firmID uuid.UUID) {
	if err := s.cache.Delete(ctx, statsKey(firmID)); err != nil {
		s.logger.Warn("engagement stats cache invalidation failed",
			zap.String("firm_id", firmID.String()),
			zap.Error(err),
		)
	}
}

// checkMilestones runs the amount rules and the stored-document schema.
func (s *Service) checkMilestones(totalValue *float64, feePercent float64, milestones []types.Milestone) error {
	if err := ValidateAmounts(totalValue, feePercent, milestones); err != nil {
		return err
	}
	doc, err := json.Marshal(milestones)
	if err != nil {
		return fmt.Errorf("failed to encode milestones: %w", err)
	}
	if err := schemas.Validate(schemas.Milestones, doc); err != nil {
		return apperr.Invalid("milestones", err)
	}
	return nil
}

// normalizeMilestones assigns ids and the PENDING status where missing. The input is not modified.
func normalizeMilestones(in []types.Milestone) []types.Milestone {
	out := make([]types.Milestone, len(in))
	copy(out, in)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
		if out[i].Status == "" {
			out[i].Status = types.MilestonePending
		}
	}
	return out
}
