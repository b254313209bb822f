package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/apperr"
	"github.com/jonathan/hypergigs/internal/server/middleware"
)

// pathID parses the named path segment as a UUID.
func pathID(r *http.Request, name, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, apperr.Validation(name, "invalid %s ID", entity)
	}
	return id, nil
}

// queryID parses a required UUID query parameter.
func queryID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return uuid.Nil, apperr.Validation(name, "%s query parameter is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation(name, "invalid %s", name)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. Absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name, "%s must be an integer", name)
	}
	return n, nil
}

// queryOptionalID parses an optional UUID query parameter. Absent means nil.
func queryOptionalID(r *http.Request, name string) (*uuid.UUID, error) {
	if r.URL.Query().Get(name) == "" {
		return nil, nil
	}
	id, err := queryID(r, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryTime parses an optional RFC 3339 timestamp or YYYY-MM-DD date.
func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Validation(name, "%s must be an RFC 3339 timestamp or a date", name)
}

// queryFloat parses an optional decimal query parameter.
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation(name, "%s must be a number", name)
	}
	return &v, nil
}

// queryList splits a comma separated query parameter, dropping blanks.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range strings.Split(r.URL.Query().Get(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// decodeBody decodes a required JSON body.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("body", "Invalid request body")
	}
	return nil
}

// decodeOptionalBody decodes a JSON body that may be empty.
func decodeOptionalBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("body", "Invalid request body")
	}
	return nil
}

// caller returns the authenticated user id.
func caller(r *http.Request) (uuid.UUID, error) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, fmt.Errorf("missing principal: %w", err)
	}
	return id, nil
}

func requireAdmin(r *http.Request) error {
	if !middleware.IsAdmin(r) {
		return apperr.Unauthorized("user", "administrator access required")
	}
	return nil
}

// requireFirmMember allows administrators and members of firmID.
func (s *Server) requireFirmMember(ctx context.Context, r *http.Request, firmID, userID uuid.UUID) error {
	if middleware.IsAdmin(r) {
		return nil
	}
	ok, err := s.deps.Members.IsTeamMember(ctx, firmID, userID)
	if err != nil {
		return fmt.Errorf("failed to check team membership: %w", err)
	}
	if !ok {
		return apperr.Unauthorized("team", "only members of the consulting firm can manage its engagements")
	}
	return nil
}

// isParty reports whether userID is partyID itself or a member of the team partyID.
func (s *Server) isParty(ctx context.Context, userID uuid.UUID, partyID *uuid.UUID) (bool, error) {
	if partyID == nil {
		return false, nil
	}
	if *partyID == userID {
		return true, nil
	}
	ok, err := s.deps.Members.IsTeamMember(ctx, *partyID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return ok, nil
}

// requireParty allows administrators and callers that are partyID or a member of it.
func (s *Server) requireParty(r *http.Request, partyID uuid.UUID, entity string) error {
	if middleware.IsAdmin(r) {
		return nil
	}
	userID, err := caller(r)
	if err != nil {
		return err
	}
	ok, err := s.isParty(r.Context(), userID, &partyID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Unauthorized(entity, "only the party itself, its team members or an administrator can view these records")
	}
	return nil
}
