package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"scribe/contexts/identity-access/authorization-service/application/commands"
	"scribe/contexts/identity-access/authorization-service/application/queries"
	"scribe/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "scribe/contexts/identity-access/authorization-service/domain/errors"
	httptransport "scribe/contexts/identity-access/authorization-service/transport/http"
)

type Handler struct {
	CheckPermission  queries.CheckPermissionUseCase
	ListMemberships  queries.ListMembershipsUseCase
	ListRoles        queries.ListRolesUseCase
	GrantMembership  commands.GrantMembershipUseCase
	RevokeMembership commands.RevokeMembershipUseCase
	Logger           *slog.Logger
}

func (h Handler) CheckPermissionHandler(ctx context.Context, req httptransport.CheckPermissionRequest) (httptransport.CheckPermissionResponse, error) {
	decision, err := h.CheckPermission.Execute(ctx, queries.CheckPermissionQuery{
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		Permission:  req.Permission,
	})
	if err != nil {
		return httptransport.CheckPermissionResponse{}, err
	}
	return httptransport.CheckPermissionResponse{
		UserID:      decision.UserID,
		WorkspaceID: decision.WorkspaceID,
		Permission:  decision.Permission,
		Allowed:     decision.Allowed,
		Reason:      decision.Reason,
		CheckedAt:   decision.CheckedAt.Format(time.RFC3339),
		CacheHit:    decision.CacheHit,
	}, nil
}

func (h Handler) GrantMembershipHandler(ctx context.Context, grantorID string, req httptransport.GrantMembershipRequest) (httptransport.MembershipResponse, error) {
	expiresAt, err := parseOptionalTime(req.ExpiresAt)
	if err != nil {
		return httptransport.MembershipResponse{}, domainerrors.ErrInvalidInput
	}
	membership, err := h.GrantMembership.Execute(ctx, commands.GrantMembershipCommand{
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		RoleID:      req.RoleID,
		GrantorID:   grantorID,
		Reason:      req.Reason,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return httptransport.MembershipResponse{}, err
	}
	return httptransport.MembershipResponse{Membership: mapMembership(membership)}, nil
}

func (h Handler) RevokeMembershipHandler(ctx context.Context, grantorID string, req httptransport.RevokeMembershipRequest) (httptransport.MembershipResponse, error) {
	membership, err := h.RevokeMembership.Execute(ctx, commands.RevokeMembershipCommand{
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		RoleID:      req.RoleID,
		GrantorID:   grantorID,
		Reason:      req.Reason,
	})
	if err != nil {
		return httptransport.MembershipResponse{}, err
	}
	return httptransport.MembershipResponse{Membership: mapMembership(membership)}, nil
}

func (h Handler) ListMembershipsHandler(ctx context.Context, userID string) (httptransport.ListMembershipsResponse, error) {
	items, err := h.ListMemberships.Execute(ctx, userID)
	if err != nil {
		return httptransport.ListMembershipsResponse{}, err
	}
	result := make([]httptransport.MembershipDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapMembership(item))
	}
	return httptransport.ListMembershipsResponse{Items: result}, nil
}

func (h Handler) ListRolesHandler(ctx context.Context) (httptransport.ListRolesResponse, error) {
	items, err := h.ListRoles.Execute(ctx)
	if err != nil {
		return httptransport.ListRolesResponse{}, err
	}
	result := make([]httptransport.RoleDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.RoleDTO{
			RoleID:      item.RoleID,
			RoleName:    item.RoleName,
			Permissions: append([]string(nil), item.Permissions...),
		})
	}
	return httptransport.ListRolesResponse{Items: result}, nil
}

func mapMembership(item entities.WorkspaceMembership) httptransport.MembershipDTO {
	result := httptransport.MembershipDTO{
		MembershipID: item.MembershipID,
		UserID:       item.UserID,
		WorkspaceID:  item.WorkspaceID,
		RoleID:       item.RoleID,
		RoleName:     item.RoleName,
		GrantedBy:    item.GrantedBy,
		Reason:       item.Reason,
		GrantedAt:    item.GrantedAt.Format(time.RFC3339),
		IsActive:     item.IsActive,
	}
	if item.ExpiresAt != nil {
		result.ExpiresAt = item.ExpiresAt.Format(time.RFC3339)
	}
	if item.RevokedAt != nil {
		result.RevokedAt = item.RevokedAt.Format(time.RFC3339)
	}
	return result
}

func parseOptionalTime(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	utc := parsed.UTC()
	return &utc, nil
}
