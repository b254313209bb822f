package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/server/middleware"
	"github.com/jonathan/hypergigs/internal/types"
)

// ---------------------------------------------------------------------
// Transaction Handlers
// ---------------------------------------------------------------------

type completeTransactionRequest struct {
	StripePaymentID string `json:"stripe_payment_id,omitempty"`
}

type failTransactionRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req types.CreateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	tx, err := s.deps.Transactions.Create(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, tx)
}

// handleGetTransaction is visible to the payer, the payee and administrators.
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "transaction")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	tx, err := s.deps.Transactions.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !middleware.IsAdmin(r) {
		visible, err := s.isParty(r.Context(), userID, tx.PayerID)
		if err == nil && !visible {
			visible, err = s.isParty(r.Context(), userID, tx.PayeeID)
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if !visible {
			s.fail(w, r, apperr.NotFound("transaction", id.String()))
			return
		}
	}
	jsonResponse(w, http.StatusOK, tx)
}

func (s *Server) handleCompleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id", "transaction")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req completeTransactionRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	tx, err := s.deps.Transactions.Complete(r.Context(), id, req.StripePaymentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tx)
}

func (s *Server) handleFailTransaction(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id", "transaction")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req failTransactionRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	tx, err := s.deps.Transactions.Fail(r.Context(), id, req.Reason)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id", "transaction")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	tx, err := s.deps.Transactions.Update(r.Context(), id, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tx)
}

func transactionFilters(r *http.Request) (types.TransactionFilters, error) {
	q := r.URL.Query()
	f := types.TransactionFilters{Type: q.Get("type"), Category: q.Get("category"), Status: q.Get("status")}
	var err error
	if f.PayerID, err = queryOptionalID(r, "payer_id"); err != nil {
		return f, err
	}
	if f.PayeeID, err = queryOptionalID(r, "payee_id"); err != nil {
		return f, err
	}
	if f.EngagementID, err = queryOptionalID(r, "engagement_id"); err != nil {
		return f, err
	}
	if f.DateFrom, err = queryTime(r, "from"); err != nil {
		return f, err
	}
	if f.DateTo, err = queryTime(r, "to"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(r, "limit"); err != nil {
		return f, err
	}
	f.Offset, err = queryInt(r, "offset")
	return f, err
}

// handleSearchTransactions searches every transaction for administrators. Other callers must
// name a payer or payee they represent.
func (s *Server) handleSearchTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilters(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !middleware.IsAdmin(r) {
		if f.PayerID == nil && f.PayeeID == nil {
			s.fail(w, r, apperr.Unauthorized("transaction", "payer_id or payee_id is required"))
			return
		}
		for _, party := range []*uuid.UUID{f.PayerID, f.PayeeID} {
			if party == nil {
				continue
			}
			if err := s.requireParty(r, *party, "transaction"); err != nil {
				s.fail(w, r, err)
				return
			}
		}
	}

	list, err := s.deps.Transactions.Search(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []types.Transaction{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"transactions": list, "count": len(list)})
}

func (s *Server) handleTransactionStats(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	from, err := queryTime(r, "from")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	stats, err := s.deps.Transactions.Stats(r.Context(), from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// ---------------------------------------------------------------------
// Subscription Handlers
// ---------------------------------------------------------------------

type cancelSubscriptionRequest struct {
	CancelAt *time.Time `json:"cancel_at,omitempty"`
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.CreateSubscriptionRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if !middleware.IsAdmin(r) {
		ok, err := s.isParty(r.Context(), userID, &req.SubscriberID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if !ok {
			s.fail(w, r, apperr.Unauthorized("subscription", "subscriptions can only be started for yourself or your team"))
			return
		}
	}

	sub, err := s.deps.Subscriptions.Create(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, sub)
}

// ownedSubscription loads the subscription in the path and checks the caller may manage it.
// Non-subscribers get NOT_FOUND.
func (s *Server) ownedSubscription(r *http.Request) (*types.Subscription, error) {
	id, err := pathID(r, "id", "subscription")
	if err != nil {
		return nil, err
	}
	userID, err := caller(r)
	if err != nil {
		return nil, err
	}
	sub, err := s.deps.Subscriptions.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if middleware.IsAdmin(r) {
		return sub, nil
	}
	ok, err := s.isParty(r.Context(), userID, &sub.SubscriberID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("subscription", id.String())
	}
	return sub, nil
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.ownedSubscription(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, sub)
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.ownedSubscription(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req cancelSubscriptionRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.deps.Subscriptions.Cancel(r.Context(), sub.ID, req.CancelAt)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleRenewSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.ownedSubscription(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.deps.Subscriptions.Renew(r.Context(), sub.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleChangePlan(w http.ResponseWriter, r *http.Request) {
	sub, err := s.ownedSubscription(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.ChangePlanRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.deps.Subscriptions.ChangePlan(r.Context(), sub.ID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// handleSearchSubscriptions searches every subscription for administrators. Other callers must
// name a subscriber they represent.
func (s *Server) handleSearchSubscriptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := types.SubscriptionFilters{SubscriberType: q.Get("subscriber_type"), Plan: q.Get("plan"), Status: q.Get("status")}
	var err error
	if f.SubscriberID, err = queryOptionalID(r, "subscriber_id"); err == nil {
		if f.Limit, err = queryInt(r, "limit"); err == nil {
			f.Offset, err = queryInt(r, "offset")
		}
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !middleware.IsAdmin(r) {
		if f.SubscriberID == nil {
			s.fail(w, r, apperr.Unauthorized("subscription", "subscriber_id is required"))
			return
		}
		if err := s.requireParty(r, *f.SubscriberID, "subscription"); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	list, err := s.deps.Subscriptions.Search(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []types.Subscription{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"subscriptions": list, "count": len(list)})
}

func (s *Server) handleActiveSubscription(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := pathID(r, "id", "subscriber")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.requireParty(r, subscriberID, "subscription"); err != nil {
		s.fail(w, r, err)
		return
	}

	sub, err := s.deps.Subscriptions.Active(r.Context(), subscriberID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sub == nil {
		s.fail(w, r, apperr.NotFound("active subscription", subscriberID.String()))
		return
	}
	jsonResponse(w, http.StatusOK, sub)
}

func (s *Server) handleSubscriptionStats(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	stats, err := s.deps.Subscriptions.Stats(r.Context(), r.URL.Query().Get("subscriber_type"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}
