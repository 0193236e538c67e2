package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"scribe/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "scribe/contexts/identity-access/authorization-service/domain/errors"
	"scribe/contexts/identity-access/authorization-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing repository/cache ports. It is
// intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	roles       map[string]entities.Role
	memberships map[string]entities.WorkspaceMembership
	cache       map[string]cacheEntry
}

type cacheEntry struct {
	Permissions []string
	ExpiresAt   time.Time
}

// NewStore builds a deterministic in-memory adapter seeded with the
// baseline role catalogue.
func NewStore() *Store {
	roles := make(map[string]entities.Role)
	for _, role := range entities.DefaultRoles() {
		roles[role.RoleID] = role
	}
	return &Store{
		roles:       roles,
		memberships: make(map[string]entities.WorkspaceMembership),
		cache:       make(map[string]cacheEntry),
	}
}

// SeedMembership installs a membership directly, bypassing the grant guard.
// Used to bootstrap the first workspace admin in tests and dev wiring.
func (s *Store) SeedMembership(userID string, workspaceID string, roleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	membershipID := uuid.NewString()
	role := s.roles[roleID]
	s.memberships[membershipID] = entities.WorkspaceMembership{
		MembershipID: membershipID,
		UserID:       userID,
		WorkspaceID:  workspaceID,
		RoleID:       roleID,
		RoleName:     role.RoleName,
		GrantedBy:    userID,
		GrantedAt:    time.Now().UTC(),
		IsActive:     true,
	}
}

// ListEffectivePermissions resolves the union of active membership role
// permissions within one workspace.
func (s *Store) ListEffectivePermissions(_ context.Context, userID string, workspaceID string, now time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permissions := make(map[string]struct{})
	for _, membership := range s.memberships {
		if membership.UserID != userID || membership.WorkspaceID != workspaceID {
			continue
		}
		if !membership.ActiveAt(now) {
			continue
		}
		role, ok := s.roles[membership.RoleID]
		if !ok {
			continue
		}
		for _, permission := range role.Permissions {
			permissions[permission] = struct{}{}
		}
	}

	items := make([]string, 0, len(permissions))
	for permission := range permissions {
		items = append(items, permission)
	}
	sort.Strings(items)
	return items, nil
}

func (s *Store) ListMemberships(_ context.Context, userID string, now time.Time) ([]entities.WorkspaceMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.WorkspaceMembership, 0)
	for _, membership := range s.memberships {
		if membership.UserID != userID {
			continue
		}
		if membership.IsActive && membership.ExpiresAt != nil && !membership.ExpiresAt.After(now) {
			continue
		}
		items = append(items, membership)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].GrantedAt.After(items[j].GrantedAt)
	})
	return items, nil
}

func (s *Store) ListRoles(_ context.Context) ([]entities.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Role, 0, len(s.roles))
	for _, role := range s.roles {
		items = append(items, role)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].RoleID < items[j].RoleID
	})
	return items, nil
}

func (s *Store) GrantMembership(_ context.Context, input ports.GrantMembershipInput) (entities.WorkspaceMembership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[input.RoleID]
	if !ok {
		return entities.WorkspaceMembership{}, domainerrors.ErrRoleNotFound
	}
	for _, membership := range s.memberships {
		if membership.UserID == input.UserID &&
			membership.WorkspaceID == input.WorkspaceID &&
			membership.RoleID == input.RoleID &&
			membership.ActiveAt(input.GrantedAt) {
			return entities.WorkspaceMembership{}, domainerrors.ErrMembershipExists
		}
	}

	membership := entities.WorkspaceMembership{
		MembershipID: input.MembershipID,
		UserID:       input.UserID,
		WorkspaceID:  input.WorkspaceID,
		RoleID:       input.RoleID,
		RoleName:     role.RoleName,
		GrantedBy:    input.GrantorID,
		Reason:       input.Reason,
		GrantedAt:    input.GrantedAt.UTC(),
		ExpiresAt:    input.ExpiresAt,
		IsActive:     true,
	}
	s.memberships[membership.MembershipID] = membership
	return membership, nil
}

func (s *Store) RevokeMembership(_ context.Context, input ports.RevokeMembershipInput) (entities.WorkspaceMembership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, membership := range s.memberships {
		if membership.UserID == input.UserID &&
			membership.WorkspaceID == input.WorkspaceID &&
			membership.RoleID == input.RoleID &&
			membership.IsActive {
			membership.IsActive = false
			revokedAt := input.RevokedAt.UTC()
			membership.RevokedAt = &revokedAt
			s.memberships[id] = membership
			return membership, nil
		}
	}
	return entities.WorkspaceMembership{}, domainerrors.ErrMembershipNotFound
}

func (s *Store) Get(_ context.Context, userID string, workspaceID string, now time.Time) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cacheKey(userID, workspaceID)
	entry, ok := s.cache[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.ExpiresAt.After(now) {
		delete(s.cache, key)
		return nil, false, nil
	}
	return append([]string(nil), entry.Permissions...), true, nil
}

func (s *Store) Set(_ context.Context, userID string, workspaceID string, permissions []string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[cacheKey(userID, workspaceID)] = cacheEntry{
		Permissions: append([]string(nil), permissions...),
		ExpiresAt:   expiresAt.UTC(),
	}
	return nil
}

func (s *Store) Invalidate(_ context.Context, userID string, workspaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, cacheKey(userID, workspaceID))
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cacheKey(userID string, workspaceID string) string {
	return userID + "|" + workspaceID
}
