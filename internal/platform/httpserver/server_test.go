package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	lifecycleservice "scribe/contexts/document-lifecycle/lifecycle-service"
	lifecyclehttp "scribe/contexts/document-lifecycle/lifecycle-service/transport/http"
	authorization "scribe/contexts/identity-access/authorization-service"
	authztransport "scribe/contexts/identity-access/authorization-service/transport/http"
)

func newTestServer(t *testing.T) (*Server, lifecycleservice.Module, authorization.Module) {
	t.Helper()
	lifecycleModule := lifecycleservice.NewInMemoryModule(nil, nil)
	authzModule := authorization.NewInMemoryModule(nil)
	server := New(lifecycleModule, authzModule, nil, ":0")
	return server, lifecycleModule, authzModule
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMutatingRoutesRequireUserHeader(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := doJSON(t, server.Handler(), http.MethodPost, "/api/documents", "", `{"workspace_id":"ws-1","kind":"process"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without X-User-Id, got %d", rec.Code)
	}
	var resp lifecyclehttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code != "missing_user" {
		t.Fatalf("expected missing_user code, got %s", resp.Code)
	}
}

func TestDocumentLifecycleOverHTTP(t *testing.T) {
	server, lifecycleModule, _ := newTestServer(t)
	handler := server.Handler()
	lifecycleModule.Store.GrantPermission("author-1", "ws-1", "document.edit", "document.submit")
	lifecycleModule.Store.GrantPermission("reviewer-1", "ws-1", "document.review")

	rec := doJSON(t, handler, http.MethodPost, "/api/documents", "author-1", `{"workspace_id":"ws-1","kind":"process"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var registered lifecyclehttp.RegisterDocumentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	documentID := registered.Document.DocumentID

	rec = doJSON(t, handler, http.MethodPost, "/api/documents/"+documentID+"/draft", "author-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("draft: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var draft lifecyclehttp.DraftResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft response: %v", err)
	}
	versionID := draft.Version.VersionID

	rec = doJSON(t, handler, http.MethodPut, "/api/documents/"+documentID+"/versions/"+versionID, "author-1",
		`{"content":{"title":"Cleaning SOP","sections":[{"heading":"Steps","body":"Rinse twice."}]}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update draft: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/documents/"+documentID+"/versions/"+versionID+"/submit", "author-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var submitted lifecyclehttp.SubmitVersionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	validationID := submitted.Validation.ValidationID

	rec = doJSON(t, handler, http.MethodGet, "/api/documents/"+documentID+"/editable", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("editable: expected 200, got %d", rec.Code)
	}
	var editable lifecyclehttp.EditableResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &editable); err != nil {
		t.Fatalf("decode editable response: %v", err)
	}
	if editable.Editable {
		t.Fatalf("expected editable false while in review")
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/validations/"+validationID+"/approve", "author-1", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("self-approve: expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/validations/"+validationID+"/approve", "reviewer-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/documents/"+documentID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get document: expected 200, got %d", rec.Code)
	}
	var detail lifecyclehttp.GetDocumentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode document response: %v", err)
	}
	if detail.Document.Status != "approved" || detail.Document.ApprovedVersionID != versionID {
		t.Fatalf("expected approved document pointing at %s, got %+v", versionID, detail.Document)
	}
	if detail.CurrentVersion == nil || !detail.CurrentVersion.IsCurrent {
		t.Fatalf("expected current version in detail, got %+v", detail.CurrentVersion)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/documents/"+documentID+"/audit?limit=10", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("audit: expected 200, got %d", rec.Code)
	}
	var history lifecyclehttp.AuditHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode audit response: %v", err)
	}
	if len(history.Items) == 0 {
		t.Fatalf("expected audit entries for the flow")
	}
}

func TestRejectWithoutObservationsOverHTTP(t *testing.T) {
	server, lifecycleModule, _ := newTestServer(t)
	handler := server.Handler()
	lifecycleModule.Store.GrantPermission("author-1", "ws-1", "document.edit", "document.submit")
	lifecycleModule.Store.GrantPermission("reviewer-1", "ws-1", "document.review")

	rec := doJSON(t, handler, http.MethodPost, "/api/documents", "author-1", `{"workspace_id":"ws-1","kind":"recipe"}`)
	var registered lifecyclehttp.RegisterDocumentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/documents/"+registered.Document.DocumentID+"/draft", "author-1", "")
	var draft lifecyclehttp.DraftResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft response: %v", err)
	}
	rec = doJSON(t, handler, http.MethodPost,
		"/api/documents/"+registered.Document.DocumentID+"/versions/"+draft.Version.VersionID+"/submit", "author-1", "")
	var submitted lifecyclehttp.SubmitVersionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}

	rec = doJSON(t, handler, http.MethodPost,
		"/api/validations/"+submitted.Validation.ValidationID+"/reject", "reviewer-1", `{"observations":"  "}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank observations, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAuthzRoutesOverHTTP(t *testing.T) {
	server, _, authzModule := newTestServer(t)
	handler := server.Handler()
	authzModule.Store.SeedMembership("admin-1", "ws-1", "workspace_admin")

	rec := doJSON(t, handler, http.MethodPost, "/api/authz/v1/check", "",
		`{"user_id":"user-1","workspace_id":"ws-1","permission":"document.edit"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("check: expected 200, got %d", rec.Code)
	}
	var decision authztransport.CheckPermissionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
		t.Fatalf("decode check response: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected deny before any grant")
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/authz/v1/memberships/grant", "admin-1",
		`{"user_id":"user-1","workspace_id":"ws-1","role_id":"author","reason":"onboarding"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("grant: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/authz/v1/check", "",
		`{"user_id":"user-1","workspace_id":"ws-1","permission":"document.edit"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
		t.Fatalf("decode check response: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected allow after grant, got %+v", decision)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/authz/v1/memberships/grant", "user-1",
		`{"user_id":"user-2","workspace_id":"ws-1","role_id":"author"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("grant without manage permission: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/authz/v1/roles", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("roles: expected 200, got %d", rec.Code)
	}
	var roles authztransport.ListRolesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &roles); err != nil {
		t.Fatalf("decode roles response: %v", err)
	}
	if len(roles.Items) != 4 {
		t.Fatalf("expected role catalogue of 4, got %d", len(roles.Items))
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/authz/v1/users/user-1/memberships", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("memberships: expected 200, got %d", rec.Code)
	}
	var memberships authztransport.ListMembershipsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &memberships); err != nil {
		t.Fatalf("decode memberships response: %v", err)
	}
	if len(memberships.Items) != 1 {
		t.Fatalf("expected one membership, got %d", len(memberships.Items))
	}
}
