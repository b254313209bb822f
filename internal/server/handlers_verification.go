package server

import (
	"net/http"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/server/middleware"
	"github.com/jonathan/hypergigs/internal/types"
)

// handleGetVerification returns a user's verification record to the user or an administrator.
func (s *Server) handleGetVerification(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id", "user")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	me, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if me != userID && !middleware.IsAdmin(r) {
		s.fail(w, r, apperr.Unauthorized("verification", "only the user or an administrator can view verification"))
		return
	}

	rec, err := s.deps.Verification.GetVerification(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateScores(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := pathID(r, "id", "user")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateScoresRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	scores, err := s.deps.Verification.UpdateScores(r.Context(), userID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, scores)
}

func (s *Server) handleUpdateVerification(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := pathID(r, "id", "user")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	adminID, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateVerificationRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.deps.Verification.UpdateStatus(r.Context(), userID, adminID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}
