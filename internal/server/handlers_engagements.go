package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/server/middleware"
	"github.com/jonathan/hypergigs/internal/types"
)

// ---------------------------------------------------------------------
// Engagement Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateEngagement(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.CreateEngagementRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.ConsultingFirmID != uuid.Nil {
		if err := s.requireFirmMember(r.Context(), r, req.ConsultingFirmID, userID); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	e, err := s.deps.Engagements.Create(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, e)
}

// handleGetEngagement is visible to firm members, the client and administrators.
// Anyone else gets NOT_FOUND.
func (s *Server) handleGetEngagement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "engagement")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := caller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	e, err := s.deps.Engagements.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !middleware.IsAdmin(r) {
		firm := e.ConsultingFirmID
		visible, err := s.isParty(r.Context(), userID, &firm)
		if err == nil && !visible {
			visible, err = s.isParty(r.Context(), userID, e.ClientID)
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if !visible {
			s.fail(w, r, apperr.NotFound("engagement", id.String()))
			return
		}
	}
	jsonResponse(w, http.StatusOK, e)
}

// firmScope reads the engagement id and the firm_id query parameter and checks membership.
func (s *Server) firmScope(r *http.Request) (id, firmID uuid.UUID, err error) {
	if id, err = pathID(r, "id", "engagement"); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if firmID, err = queryID(r, "firm_id"); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	userID, err := caller(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if err := s.requireFirmMember(r.Context(), r, firmID, userID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return id, firmID, nil
}

func (s *Server) handleUpdateEngagement(w http.ResponseWriter, r *http.Request) {
	id, firmID, err := s.firmScope(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateEngagementRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	e, err := s.deps.Engagements.Update(r.Context(), id, firmID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEngagement(w http.ResponseWriter, r *http.Request) {
	id, firmID, err := s.firmScope(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.Engagements.Delete(r.Context(), id, firmID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateMilestone(w http.ResponseWriter, r *http.Request) {
	id, firmID, err := s.firmScope(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	milestoneID := r.PathValue("milestone_id")
	var req types.UpdateMilestoneRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	e, err := s.deps.Engagements.UpdateMilestone(r.Context(), id, firmID, milestoneID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, e)
}

func (s *Server) firmFromPath(r *http.Request) (uuid.UUID, error) {
	firmID, err := pathID(r, "id", "firm")
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := caller(r)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.requireFirmMember(r.Context(), r, firmID, userID); err != nil {
		return uuid.Nil, err
	}
	return firmID, nil
}

func (s *Server) handleListFirmEngagements(w http.ResponseWriter, r *http.Request) {
	firmID, err := s.firmFromPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	var list []types.Engagement
	if q.Get("status") == "" && q.Get("limit") == "" && q.Get("offset") == "" {
		list, err = s.deps.Engagements.ListByFirm(r.Context(), firmID)
	} else {
		f := types.EngagementFilters{ConsultingFirmID: &firmID, Status: q.Get("status")}
		if f.Limit, err = queryInt(r, "limit"); err == nil {
			f.Offset, err = queryInt(r, "offset")
		}
		if err == nil {
			list, err = s.deps.Engagements.Search(r.Context(), f)
		}
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []types.Engagement{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"engagements": list, "count": len(list)})
}

func (s *Server) handleEngagementStats(w http.ResponseWriter, r *http.Request) {
	firmID, err := s.firmFromPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	stats, err := s.deps.Engagements.Stats(r.Context(), firmID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// handleListClientEngagements lists the engagements where the path id is the client.
func (s *Server) handleListClientEngagements(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id", "client")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.requireParty(r, clientID, "engagement"); err != nil {
		s.fail(w, r, err)
		return
	}

	list, err := s.deps.Engagements.ListByClient(r.Context(), clientID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []types.Engagement{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"engagements": list, "count": len(list)})
}
