// Package server provides the HTTP REST API for the marketplace.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/hypergigs/internal/billing"
	"github.com/jonathan/hypergigs/internal/cache"
	"github.com/jonathan/hypergigs/internal/config"
	"github.com/jonathan/hypergigs/internal/db"
	"github.com/jonathan/hypergigs/internal/education"
	"github.com/jonathan/hypergigs/internal/engagement"
	"github.com/jonathan/hypergigs/internal/logging"
	"github.com/jonathan/hypergigs/internal/metrics"
	"github.com/jonathan/hypergigs/internal/server/middleware"
	"github.com/jonathan/hypergigs/internal/server/ratelimit"
	"github.com/jonathan/hypergigs/internal/suggestion"
	"github.com/jonathan/hypergigs/internal/verification"
)

// Memberships answers team membership questions for authorization checks.
type Memberships interface {
	IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services behind the API.
type Deps struct {
	Users         UserStore
	Members       Memberships
	Health        Pinger
	Suggestions   *suggestion.Service
	Engagements   *engagement.Service
	Verification  *verification.Service
	Talent        *verification.TalentService
	Transactions  *billing.TransactionService
	Subscriptions *billing.SubscriptionService
	Education     *education.Service
}

// Server represents the HTTP server
type Server struct {
	cfg         *config.Config
	deps        Deps
	logger      *zap.Logger
	httpServer  *http.Server
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	closers     []func()
}

// New builds a server around already constructed services.
func New(cfg *config.Config, deps Deps, logger *zap.Logger) (*Server, error) {
	logger = logging.OrNop(logger)

	passwordConfig, err := config.NewPasswordConfig(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		cfg:         cfg,
		deps:        deps,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.ConfigFrom(cfg.RateLimit)),
		jwtService:  NewJWTService(jwtConfig),
	}
	s.authHandler = NewAuthHandler(NewUserService(deps.Users, passwordConfig, logger), s.jwtService, logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Open connects to Postgres and Redis and wires every service from cfg.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	logger = logging.OrNop(logger)

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closers := []func(){database.Close}

	var statsCache cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedis(cfg.Redis)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, stats will be recomputed on every request",
				zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		statsCache = rc
		closers = append(closers, func() { _ = rc.Close() })
	}

	verifier, err := verification.NewService(database, verification.WeightsFrom(cfg.Marketplace), logger)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, fmt.Errorf("failed to create verification service: %w", err)
	}

	currency := cfg.Marketplace.DefaultCurrency
	s, err := New(cfg, Deps{
		Users:         database,
		Members:       database,
		Health:        database,
		Suggestions:   suggestion.NewService(database, suggestion.OptionsFrom(cfg.Marketplace), logger),
		Engagements:   engagement.NewService(database, statsCache, engagement.OptionsFrom(cfg), logger),
		Verification:  verifier,
		Talent:        verification.NewTalentService(database, logger),
		Transactions:  billing.NewTransactionService(database, currency, logger),
		Subscriptions: billing.NewSubscriptionService(database, currency, logger),
		Education:     education.NewService(database, logger),
	}, logger)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}
	s.closers = closers
	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protect := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", s.authHandler.Login)

	mux.Handle("GET /v1/teams/{id}/suggested-members", protect(s.handleSuggestMembers))

	mux.Handle("POST /v1/engagements", protect(s.handleCreateEngagement))
	mux.Handle("GET /v1/engagements/{id}", protect(s.handleGetEngagement))
	mux.Handle("PUT /v1/engagements/{id}", protect(s.handleUpdateEngagement))
	mux.Handle("DELETE /v1/engagements/{id}", protect(s.handleDeleteEngagement))
	mux.Handle("PATCH /v1/engagements/{id}/milestones/{milestone_id}", protect(s.handleUpdateMilestone))
	mux.Handle("GET /v1/firms/{id}/engagements", protect(s.handleListFirmEngagements))
	mux.Handle("GET /v1/firms/{id}/engagements/stats", protect(s.handleEngagementStats))
	mux.Handle("GET /v1/clients/{id}/engagements", protect(s.handleListClientEngagements))

	mux.Handle("GET /v1/users/{id}/verification", protect(s.handleGetVerification))
	mux.Handle("PUT /v1/users/{id}/verification/scores", protect(s.handleUpdateScores))
	mux.Handle("PUT /v1/users/{id}/verification", protect(s.handleUpdateVerification))

	mux.Handle("GET /v1/talent", protect(s.handleSearchTalent))
	mux.Handle("GET /v1/talent/stats", protect(s.handleTalentStats))
	mux.Handle("PUT /v1/users/{id}/talent-profile", protect(s.handleUpdateTalentProfile))
	mux.Handle("PUT /v1/users/{id}/availability", protect(s.handleUpdateAvailability))

	mux.Handle("POST /v1/transactions", protect(s.handleCreateTransaction))
	mux.Handle("GET /v1/transactions", protect(s.handleSearchTransactions))
	mux.Handle("GET /v1/transactions/stats", protect(s.handleTransactionStats))
	mux.Handle("GET /v1/transactions/{id}", protect(s.handleGetTransaction))
	mux.Handle("PUT /v1/transactions/{id}", protect(s.handleUpdateTransaction))
	mux.Handle("POST /v1/transactions/{id}/complete", protect(s.handleCompleteTransaction))
	mux.Handle("POST /v1/transactions/{id}/fail", protect(s.handleFailTransaction))

	mux.Handle("POST /v1/subscriptions", protect(s.handleCreateSubscription))
	mux.Handle("GET /v1/subscriptions", protect(s.handleSearchSubscriptions))
	mux.Handle("GET /v1/subscriptions/stats", protect(s.handleSubscriptionStats))
	mux.Handle("GET /v1/subscriptions/{id}", protect(s.handleGetSubscription))
	mux.Handle("POST /v1/subscriptions/{id}/cancel", protect(s.handleCancelSubscription))
	mux.Handle("POST /v1/subscriptions/{id}/renew", protect(s.handleRenewSubscription))
	mux.Handle("PUT /v1/subscriptions/{id}/plan", protect(s.handleChangePlan))
	mux.Handle("GET /v1/subscribers/{id}/subscriptions/active", protect(s.handleActiveSubscription))

	mux.Handle("GET /v1/users/{id}/education", protect(s.handleListEducation))
	mux.Handle("POST /v1/education", protect(s.handleCreateEducation))
	mux.Handle("PUT /v1/education/{id}", protect(s.handleUpdateEducation))
	mux.Handle("DELETE /v1/education/{id}", protect(s.handleDeleteEducation))

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return corsHandler(s.withLogging(s.withRateLimit(mux)))
}

// Start listens until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops the rate limiter and releases the backing connections.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs every request and records the HTTP metrics.
// The route label is the matched mux pattern, which ServeMux sets on the request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		s.logger.Debug("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error JSON response
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status code. Internal errors are logged and hidden from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		errorResponse(w, status, "internal server error")
		return
	}
	errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Info("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	jsonResponse(w, http.StatusTooManyRequests, response)
}
