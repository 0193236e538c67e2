package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	lifecycleerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
	lifecyclehttp "scribe/contexts/document-lifecycle/lifecycle-service/transport/http"
)

func (s *Server) registerLifecycleRoutes() {
	s.mux.HandleFunc("POST /api/documents", s.handleRegisterDocument)
	s.mux.HandleFunc("POST /api/documents/{document_id}/draft", s.handleCreateDraft)
	s.mux.HandleFunc("PUT /api/documents/{document_id}/versions/{version_id}", s.handleUpdateDraft)
	s.mux.HandleFunc("POST /api/documents/{document_id}/versions/{version_id}/submit", s.handleSubmitVersion)
	s.mux.HandleFunc("POST /api/documents/{document_id}/versions/{version_id}/cancel", s.handleCancelSubmission)
	s.mux.HandleFunc("POST /api/documents/{document_id}/versions/{version_id}/clone", s.handleCloneVersion)
	s.mux.HandleFunc("POST /api/validations/{validation_id}/approve", s.handleApproveVersion)
	s.mux.HandleFunc("POST /api/validations/{validation_id}/reject", s.handleRejectVersion)

	s.mux.HandleFunc("GET /api/documents/{document_id}", s.handleGetDocument)
	s.mux.HandleFunc("GET /api/documents/{document_id}/versions", s.handleListVersions)
	s.mux.HandleFunc("GET /api/documents/{document_id}/editable", s.handleCheckEditable)
	s.mux.HandleFunc("GET /api/documents/{document_id}/validation", s.handlePendingValidation)
	s.mux.HandleFunc("GET /api/documents/{document_id}/audit", s.handleAuditHistory)
}

func (s *Server) handleRegisterDocument(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req lifecyclehttp.RegisterDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.lifecycle.Handler.RegisterDocumentHandler(r.Context(), userID, req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	req := lifecyclehttp.CreateDraftRequest{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}

	resp, err := s.lifecycle.Handler.CreateDraftHandler(r.Context(), userID, r.PathValue("document_id"), req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req lifecyclehttp.UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.lifecycle.Handler.UpdateDraftHandler(
		r.Context(),
		userID,
		r.PathValue("document_id"),
		r.PathValue("version_id"),
		req,
	)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitVersion(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.lifecycle.Handler.SubmitVersionHandler(r.Context(), userID, r.PathValue("version_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelSubmission(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.lifecycle.Handler.CancelSubmissionHandler(
		r.Context(),
		userID,
		r.PathValue("document_id"),
		r.PathValue("version_id"),
	)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloneVersion(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.lifecycle.Handler.CloneVersionHandler(
		r.Context(),
		userID,
		r.PathValue("document_id"),
		r.PathValue("version_id"),
	)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveVersion(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.lifecycle.Handler.ApproveVersionHandler(r.Context(), userID, r.PathValue("validation_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectVersion(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req lifecyclehttp.RejectVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.lifecycle.Handler.RejectVersionHandler(r.Context(), userID, r.PathValue("validation_id"), req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.GetDocumentHandler(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.ListVersionsHandler(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckEditable(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.CheckEditableHandler(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePendingValidation(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.PendingValidationHandler(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuditHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitRaw := strings.TrimSpace(r.URL.Query().Get("limit")); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeLifecycleError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.lifecycle.Handler.AuditHistoryHandler(r.Context(), r.PathValue("document_id"), limit)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLifecycleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycleerrors.ErrDocumentNotFound):
		writeLifecycleError(w, http.StatusNotFound, "document_not_found", err.Error())
	case errors.Is(err, lifecycleerrors.ErrVersionNotFound):
		writeLifecycleError(w, http.StatusNotFound, "version_not_found", err.Error())
	case errors.Is(err, lifecycleerrors.ErrValidationNotFound):
		writeLifecycleError(w, http.StatusNotFound, "validation_not_found", err.Error())
	case errors.Is(err, lifecycleerrors.ErrInvalidState):
		writeLifecycleError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, lifecycleerrors.ErrDraftConflict):
		writeLifecycleError(w, http.StatusConflict, "draft_conflict", err.Error())
	case errors.Is(err, lifecycleerrors.ErrInReviewConflict):
		writeLifecycleError(w, http.StatusConflict, "in_review_conflict", err.Error())
	case errors.Is(err, lifecycleerrors.ErrSegregationViolation):
		writeLifecycleError(w, http.StatusForbidden, "segregation_violation", err.Error())
	case errors.Is(err, lifecycleerrors.ErrObservationsRequired):
		writeLifecycleError(w, http.StatusUnprocessableEntity, "observations_required", err.Error())
	case errors.Is(err, lifecycleerrors.ErrPermissionDenied):
		writeLifecycleError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, lifecycleerrors.ErrInvalidInput):
		writeLifecycleError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeLifecycleError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLifecycleError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, lifecyclehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
