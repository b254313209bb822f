// Package suggestion recommends existing users as new members of a team.
package suggestion

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/config"
	"github.com/jonathan/hypergigs/internal/logging"
	"github.com/jonathan/hypergigs/internal/metrics"
	"github.com/jonathan/hypergigs/internal/ranking"
	"github.com/jonathan/hypergigs/internal/skills"
	"github.com/jonathan/hypergigs/internal/types"
)

// Directory is the read side of the user and team store.
type Directory interface {
	IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	// GetTeam returns nil, nil when the team does not exist.
	GetTeam(ctx context.Context, teamID uuid.UUID) (*types.TeamProfile, error)
	// ListCandidates returns up to limit users that are not in excludeIDs, with skills and work history loaded.
	ListCandidates(ctx context.Context, excludeIDs []uuid.UUID, limit int) ([]types.CandidateProfile, error)
}

// Options tunes the suggestion pipeline.
type Options struct {
	MinScore     int
	PoolSize     int
	DefaultLimit int
}

// DefaultOptions returns the marketplace defaults.
func DefaultOptions() Options {
	return Options{
		MinScore:     config.DefaultMinMatchScore,
		PoolSize:     config.DefaultCandidatePoolSize,
		DefaultLimit: config.DefaultSuggestionLimit,
	}
}

// OptionsFrom reads the options from the marketplace config section.
func OptionsFrom(m config.MarketplaceConfig) Options {
	return Options{
		MinScore:     m.MinMatchScore,
		PoolSize:     m.CandidatePoolSize,
		DefaultLimit: m.DefaultSuggestionLimit,
	}
}

// Service suggests members for a team.
type Service struct {
	dir    Directory
	opts   Options
	logger *zap.Logger
}

// NewService creates a suggestion service. A nil logger disables logging.
func NewService(dir Directory, opts Options, logger *zap.Logger) *Service {
	if opts.PoolSize <= 0 {
		opts.PoolSize = config.DefaultCandidatePoolSize
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = config.DefaultSuggestionLimit
	}
	return &Service{dir: dir, opts: opts, logger: logging.OrNop(logger)}
}

// SuggestMembers returns the best matching non-members for teamID, highest score first.
// The requesting user must be a member of the team. limit <= 0 uses the configured default.
func (s *Service) SuggestMembers(ctx context.Context, teamID, requestingUserID uuid.UUID, limit int) ([]types.MatchResult, error) {
	start := time.Now()
	defer metrics.ObserveSince(metrics.SuggestionDuration, start)

	results, err := s.suggest(ctx, teamID, requestingUserID, limit)
	if err != nil {
		metrics.SuggestionFailures.WithLabelValues(string(apperr.KindOf(err))).Inc()
		return nil, err
	}
	metrics.SuggestionsReturned.Observe(float64(len(results)))
	return results, nil
}

func (s *Service) suggest(ctx context.Context, teamID, requestingUserID uuid.UUID, limit int) ([]types.MatchResult, error) {
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}

	isMember, err := s.dir.IsTeamMember(ctx, teamID, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check team membership: %w", err)
	}
	if !isMember {
		return nil, apperr.Unauthorized("team", "only team members can view suggestions")
	}

	team, err := s.dir.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if team == nil {
		return nil, apperr.NotFound("team", teamID.String())
	}

	keywords := skills.ExtractKeywordsLogged(*team, s.logger)

	candidates, err := s.dir.ListCandidates(ctx, team.MemberIDs, s.opts.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	scored, err := s.scoreAll(ctx, keywords, candidates, team.Location())
	if err != nil {
		return nil, err
	}
	metrics.CandidatesScored.Add(float64(len(candidates)))

	results := ranking.Rank(scored, s.opts.MinScore, limit)

	s.logger.Debug("member suggestions computed",
		zap.String("team_id", teamID.String()),
		zap.Strings("keywords", keywords.Slice()),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(results)),
		zap.Array("scores", scoreTrace(scored)),
	)

	return results, nil
}

// scoreAll evaluates every candidate. Each goroutine writes only its own slot.
func (s *Service) scoreAll(ctx context.Context, keywords skills.KeywordSet, candidates []types.CandidateProfile, loc types.TeamLocation) ([]types.MatchResult, error) {
	out := make([]types.MatchResult, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			c := candidates[i]
			eval := ranking.Evaluate(keywords, c, loc)
			out[i] = types.MatchResult{
				CandidateID: c.ID,
				Score:       eval.Score,
				MatchReason: eval.Reason(),
				Candidate: &types.CandidateSummary{
					Username:  c.Username,
					JobTitle:  c.JobTitle,
					Location:  c.Location,
					Available: c.Available,
				},
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}
	return out, nil
}
