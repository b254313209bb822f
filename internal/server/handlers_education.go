package server

import (
	"net/http"

	"github.com/jonathan/hypergigs/internal/types"
)

// ---------------------------------------------------------------------
// Education Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id", "user")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.deps.Education.List(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []types.Education{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"education": list, "count": len(list)})
}

func (s *Server) handleCreateEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.EducationRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	e, err := s.deps.Education.Create(r.Context(), userID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "education")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.EducationRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	e, err := s.deps.Education.Update(r.Context(), id, userID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "education")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.Education.Delete(r.Context(), id, userID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
