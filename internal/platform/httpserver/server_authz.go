package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	authzerrors "scribe/contexts/identity-access/authorization-service/domain/errors"
	authztransport "scribe/contexts/identity-access/authorization-service/transport/http"
)

func (s *Server) registerAuthzRoutes() {
	s.mux.HandleFunc("POST /api/authz/v1/check", s.handleCheckPermission)
	s.mux.HandleFunc("POST /api/authz/v1/memberships/grant", s.handleGrantMembership)
	s.mux.HandleFunc("POST /api/authz/v1/memberships/revoke", s.handleRevokeMembership)
	s.mux.HandleFunc("GET /api/authz/v1/users/{user_id}/memberships", s.handleListMemberships)
	s.mux.HandleFunc("GET /api/authz/v1/roles", s.handleListRoles)
}

func (s *Server) handleCheckPermission(w http.ResponseWriter, r *http.Request) {
	var req authztransport.CheckPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthzError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.authorization.Handler.CheckPermissionHandler(r.Context(), req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrantMembership(w http.ResponseWriter, r *http.Request) {
	grantorID := r.Header.Get("X-User-Id")
	if grantorID == "" {
		writeAuthzError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req authztransport.GrantMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthzError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.authorization.Handler.GrantMembershipHandler(r.Context(), grantorID, req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRevokeMembership(w http.ResponseWriter, r *http.Request) {
	grantorID := r.Header.Get("X-User-Id")
	if grantorID == "" {
		writeAuthzError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req authztransport.RevokeMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthzError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.authorization.Handler.RevokeMembershipHandler(r.Context(), grantorID, req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMemberships(w http.ResponseWriter, r *http.Request) {
	resp, err := s.authorization.Handler.ListMembershipsHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.authorization.Handler.ListRolesHandler(r.Context())
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAuthzDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authzerrors.ErrInvalidUserID),
		errors.Is(err, authzerrors.ErrInvalidWorkspaceID),
		errors.Is(err, authzerrors.ErrInvalidRoleID),
		errors.Is(err, authzerrors.ErrInvalidGrantorID),
		errors.Is(err, authzerrors.ErrInvalidPermission),
		errors.Is(err, authzerrors.ErrInvalidInput):
		writeAuthzError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, authzerrors.ErrRoleNotFound):
		writeAuthzError(w, http.StatusNotFound, "role_not_found", err.Error())
	case errors.Is(err, authzerrors.ErrMembershipNotFound):
		writeAuthzError(w, http.StatusNotFound, "membership_not_found", err.Error())
	case errors.Is(err, authzerrors.ErrMembershipExists):
		writeAuthzError(w, http.StatusConflict, "membership_exists", err.Error())
	case errors.Is(err, authzerrors.ErrForbidden):
		writeAuthzError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeAuthzError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuthzError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authztransport.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
