package server

import (
	"net/http"

	"github.com/jonathan/hypergigs/internal/types"
)

type suggestionsResponse struct {
	Suggestions []types.MatchResult `json:"suggestions"`
}

func (s *Server) handleSuggestMembers(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "id", "team")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	results, err := s.deps.Suggestions.SuggestMembers(r.Context(), teamID, userID, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if results == nil {
		results = []types.MatchResult{}
	}
	jsonResponse(w, http.StatusOK, suggestionsResponse{Suggestions: results})
}
