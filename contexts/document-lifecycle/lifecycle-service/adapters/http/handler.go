package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"scribe/contexts/document-lifecycle/lifecycle-service/application/commands"
	"scribe/contexts/document-lifecycle/lifecycle-service/application/queries"
	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	httptransport "scribe/contexts/document-lifecycle/lifecycle-service/transport/http"
)

type Handler struct {
	Register commands.RegisterUseCase
	Draft    commands.DraftUseCase
	Content  commands.ContentUseCase
	Submit   commands.SubmitUseCase
	Review   commands.ReviewUseCase
	Cancel   commands.CancelUseCase
	Query    queries.QueryUseCase
	Logger   *slog.Logger
}

func (h Handler) RegisterDocumentHandler(ctx context.Context, userID string, req httptransport.RegisterDocumentRequest) (httptransport.RegisterDocumentResponse, error) {
	document, err := h.Register.Execute(ctx, commands.RegisterDocumentCommand{
		WorkspaceID: req.WorkspaceID,
		Kind:        req.Kind,
		ActorID:     userID,
	})
	if err != nil {
		return httptransport.RegisterDocumentResponse{}, err
	}
	return httptransport.RegisterDocumentResponse{Document: mapDocument(document)}, nil
}

func (h Handler) CreateDraftHandler(ctx context.Context, userID string, documentID string, req httptransport.CreateDraftRequest) (httptransport.DraftResponse, error) {
	version, err := h.Draft.GetOrCreate(ctx, commands.GetOrCreateDraftCommand{
		DocumentID:      documentID,
		SourceVersionID: req.SourceVersionID,
		ActorID:         userID,
	})
	if err != nil {
		return httptransport.DraftResponse{}, err
	}
	return httptransport.DraftResponse{Version: mapVersion(version)}, nil
}

func (h Handler) CloneVersionHandler(ctx context.Context, userID string, documentID string, versionID string) (httptransport.DraftResponse, error) {
	version, err := h.Draft.Clone(ctx, commands.CloneVersionCommand{
		DocumentID:      documentID,
		SourceVersionID: versionID,
		ActorID:         userID,
	})
	if err != nil {
		return httptransport.DraftResponse{}, err
	}
	return httptransport.DraftResponse{Version: mapVersion(version)}, nil
}

func (h Handler) UpdateDraftHandler(
	ctx context.Context,
	userID string,
	documentID string,
	versionID string,
	req httptransport.UpdateDraftRequest,
) (httptransport.DraftResponse, error) {
	version, err := h.Content.UpdateDraft(ctx, commands.UpdateDraftCommand{
		DocumentID: documentID,
		VersionID:  versionID,
		Content:    mapContentFromDTO(req.Content),
		ActorID:    userID,
	})
	if err != nil {
		return httptransport.DraftResponse{}, err
	}
	return httptransport.DraftResponse{Version: mapVersion(version)}, nil
}

func (h Handler) SubmitVersionHandler(ctx context.Context, userID string, versionID string) (httptransport.SubmitVersionResponse, error) {
	result, err := h.Submit.Execute(ctx, commands.SubmitVersionCommand{
		VersionID:   versionID,
		SubmitterID: userID,
	})
	if err != nil {
		return httptransport.SubmitVersionResponse{}, err
	}
	return httptransport.SubmitVersionResponse{
		Version:    mapVersion(result.Version),
		Validation: mapValidation(result.Validation),
	}, nil
}

func (h Handler) ApproveVersionHandler(ctx context.Context, userID string, validationID string) (httptransport.ReviewResponse, error) {
	result, err := h.Review.Approve(ctx, commands.ApproveVersionCommand{
		ValidationID: validationID,
		ApproverID:   userID,
	})
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	return httptransport.ReviewResponse{
		Version:    mapVersion(result.Version),
		Validation: mapValidation(result.Validation),
	}, nil
}

func (h Handler) RejectVersionHandler(
	ctx context.Context,
	userID string,
	validationID string,
	req httptransport.RejectVersionRequest,
) (httptransport.ReviewResponse, error) {
	result, err := h.Review.Reject(ctx, commands.RejectVersionCommand{
		ValidationID: validationID,
		RejectorID:   userID,
		Observations: req.Observations,
	})
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	return httptransport.ReviewResponse{
		Version:    mapVersion(result.Version),
		Validation: mapValidation(result.Validation),
	}, nil
}

func (h Handler) CancelSubmissionHandler(ctx context.Context, userID string, documentID string, versionID string) (httptransport.DraftResponse, error) {
	version, err := h.Cancel.Execute(ctx, commands.CancelSubmissionCommand{
		DocumentID: documentID,
		VersionID:  versionID,
		ActorID:    userID,
	})
	if err != nil {
		return httptransport.DraftResponse{}, err
	}
	return httptransport.DraftResponse{Version: mapVersion(version)}, nil
}

func (h Handler) GetDocumentHandler(ctx context.Context, documentID string) (httptransport.GetDocumentResponse, error) {
	detail, err := h.Query.GetDocument(ctx, documentID)
	if err != nil {
		return httptransport.GetDocumentResponse{}, err
	}
	response := httptransport.GetDocumentResponse{Document: mapDocument(detail.Document)}
	if detail.CurrentVersion != nil {
		current := mapVersion(*detail.CurrentVersion)
		response.CurrentVersion = &current
	}
	if detail.DraftVersion != nil {
		draft := mapVersion(*detail.DraftVersion)
		response.DraftVersion = &draft
	}
	return response, nil
}

func (h Handler) ListVersionsHandler(ctx context.Context, documentID string) (httptransport.ListVersionsResponse, error) {
	items, err := h.Query.ListVersions(ctx, documentID)
	if err != nil {
		return httptransport.ListVersionsResponse{}, err
	}
	result := make([]httptransport.VersionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapVersion(item))
	}
	return httptransport.ListVersionsResponse{Items: result}, nil
}

func (h Handler) CheckEditableHandler(ctx context.Context, documentID string) (httptransport.EditableResponse, error) {
	result, err := h.Query.CheckEditable(ctx, documentID)
	if err != nil {
		return httptransport.EditableResponse{}, err
	}
	return httptransport.EditableResponse{
		Editable: result.Editable,
		Reason:   result.Reason,
	}, nil
}

func (h Handler) PendingValidationHandler(ctx context.Context, documentID string) (httptransport.PendingValidationResponse, error) {
	validation, found, err := h.Query.PendingValidation(ctx, documentID)
	if err != nil {
		return httptransport.PendingValidationResponse{}, err
	}
	if !found {
		return httptransport.PendingValidationResponse{}, nil
	}
	mapped := mapValidation(validation)
	return httptransport.PendingValidationResponse{Validation: &mapped}, nil
}

func (h Handler) AuditHistoryHandler(ctx context.Context, documentID string, limit int) (httptransport.AuditHistoryResponse, error) {
	items, err := h.Query.History(ctx, documentID, limit)
	if err != nil {
		return httptransport.AuditHistoryResponse{}, err
	}
	result := make([]httptransport.AuditEntryDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.AuditEntryDTO{
			AuditID:    item.AuditID,
			DocumentID: item.DocumentID,
			Action:     item.Action,
			EntityType: item.EntityType,
			EntityID:   item.EntityID,
			ActorID:    item.ActorID,
			Metadata:   item.Metadata,
			CreatedAt:  item.CreatedAt.Format(time.RFC3339),
		})
	}
	return httptransport.AuditHistoryResponse{Items: result}, nil
}

func mapDocument(item entities.Document) httptransport.DocumentDTO {
	return httptransport.DocumentDTO{
		DocumentID:        item.DocumentID,
		WorkspaceID:       item.WorkspaceID,
		Kind:              string(item.Kind),
		ApprovedVersionID: item.ApprovedVersionID,
		Status:            string(item.Status),
		CreatedAt:         item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         item.UpdatedAt.Format(time.RFC3339),
	}
}

func mapVersion(item entities.DocumentVersion) httptransport.VersionDTO {
	result := httptransport.VersionDTO{
		VersionID:           item.VersionID,
		DocumentID:          item.DocumentID,
		VersionNumber:       item.VersionNumber,
		Status:              string(item.Status),
		SupersedesVersionID: item.SupersedesVersionID,
		Content:             mapContent(item.Content),
		CreatedBy:           item.CreatedBy,
		CreatedAt:           item.CreatedAt.Format(time.RFC3339),
		ApprovedBy:          item.ApprovedBy,
		RejectedBy:          item.RejectedBy,
		ValidationID:        item.ValidationID,
		IsCurrent:           item.IsCurrent,
		UpdatedAt:           item.UpdatedAt.Format(time.RFC3339),
	}
	if item.ApprovedAt != nil {
		result.ApprovedAt = item.ApprovedAt.Format(time.RFC3339)
	}
	if item.RejectedAt != nil {
		result.RejectedAt = item.RejectedAt.Format(time.RFC3339)
	}
	return result
}

func mapValidation(item entities.Validation) httptransport.ValidationDTO {
	result := httptransport.ValidationDTO{
		ValidationID: item.ValidationID,
		DocumentID:   item.DocumentID,
		Status:       string(item.Status),
		Observations: item.Observations,
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
	}
	if item.CompletedAt != nil {
		result.CompletedAt = item.CompletedAt.Format(time.RFC3339)
	}
	return result
}

func mapContent(item entities.ContentPayload) httptransport.ContentPayloadDTO {
	sections := make([]httptransport.SectionDTO, 0, len(item.Sections))
	for _, section := range item.Sections {
		sections = append(sections, httptransport.SectionDTO{
			Heading: section.Heading,
			Body:    section.Body,
		})
	}
	return httptransport.ContentPayloadDTO{
		Schema:   item.Schema,
		Title:    item.Title,
		Sections: sections,
		Rendered: item.Rendered,
	}
}

func mapContentFromDTO(item httptransport.ContentPayloadDTO) entities.ContentPayload {
	sections := make([]entities.Section, 0, len(item.Sections))
	for _, section := range item.Sections {
		sections = append(sections, entities.Section{
			Heading: section.Heading,
			Body:    section.Body,
		})
	}
	return entities.ContentPayload{
		Schema:   item.Schema,
		Title:    item.Title,
		Sections: sections,
		Rendered: item.Rendered,
	}
}
