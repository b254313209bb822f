package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/server/middleware"
	"github.com/jonathan/hypergigs/internal/types"
)

func talentFilter(r *http.Request) (types.TalentFilter, error) {
	q := r.URL.Query()
	f := types.TalentFilter{
		TalentRole:           q.Get("role"),
		TalentTier:           q.Get("tier"),
		EmploymentPreference: q.Get("employment_preference"),
		VerificationStatus:   q.Get("verification_status"),
		VerificationTier:     q.Get("verification_tier"),
		AvailabilityStatus:   q.Get("availability"),
		Timezone:             q.Get("timezone"),
		Skills:               queryList(r, "skills"),
	}
	var err error
	if f.MinHourlyRate, err = queryFloat(r, "min_rate"); err != nil {
		return f, err
	}
	if f.MaxHourlyRate, err = queryFloat(r, "max_rate"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(r, "limit"); err != nil {
		return f, err
	}
	f.Offset, err = queryInt(r, "offset")
	return f, err
}

// handleSearchTalent lists AI talent, best verified and highest scored first.
func (s *Server) handleSearchTalent(w http.ResponseWriter, r *http.Request) {
	f, err := talentFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.deps.Talent.Search(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []types.TalentProfile{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"talent": list, "count": len(list)})
}

func (s *Server) handleTalentStats(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	stats, err := s.deps.Talent.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// selfOrAdmin returns the user id in the path when the caller is that user or an administrator.
func selfOrAdmin(r *http.Request) (uuid.UUID, error) {
	userID, err := pathID(r, "id", "user")
	if err != nil {
		return uuid.Nil, err
	}
	me, err := caller(r)
	if err != nil {
		return uuid.Nil, err
	}
	if me != userID && !middleware.IsAdmin(r) {
		return uuid.Nil, apperr.Unauthorized("user", "you can only change your own talent profile")
	}
	return userID, nil
}

func (s *Server) handleUpdateTalentProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := selfOrAdmin(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateTalentProfileRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := s.deps.Talent.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleUpdateAvailability(w http.ResponseWriter, r *http.Request) {
	userID, err := selfOrAdmin(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateAvailabilityRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := s.deps.Talent.UpdateAvailability(r.Context(), userID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, p)
}
