// Package service implements the application services that sit between
// the HTTP layer and storage: permission checks, validation, and the
// orchestration of the balance and settlement engine.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// Identity is the authenticated caller as the identity provider
// describes them.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// authorize fetches the group and checks that the user is an active
// member holding the given capability. Group lookup failures surface as
// not-found; membership and capability failures as permission errors.
func authorize(ctx context.Context, store storage.Store, groupID, userID string, cap models.Capability) (*models.Group, *models.Member, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	for i := range group.Members {
		m := &group.Members[i]
		if m.UserID != userID {
			continue
		}
		if !m.Active {
			break
		}
		if !m.Role.Can(cap) {
			return nil, nil, fmt.Errorf("role %q lacks capability %q: %w", m.Role, cap, models.ErrPermissionDenied)
		}
		return group, m, nil
	}
	return nil, nil, fmt.Errorf("user %s is not an active member of group %s: %w", userID, groupID, models.ErrPermissionDenied)
}

// activeMember returns the active member with the given user ID, if any.
func activeMember(group *models.Group, userID string) *models.Member {
	for i := range group.Members {
		m := &group.Members[i]
		if m.UserID == userID && m.Active {
			return m
		}
	}
	return nil
}

// GroupService manages groups, membership, and the activity log.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, actor Identity, name string) (*models.Group, error) {
	if name == "" {
		return nil, models.Validationf("group name is required")
	}

	group := &models.Group{
		Name:      name,
		CreatedBy: actor.UserID,
		Members: []models.Member{
			{
				UserID: actor.UserID,
				Name:   actor.Name,
				Email:  actor.Email,
				Role:   models.RoleOwner,
				Active: true,
			},
		},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "name", name, "error", err)
		return nil, err
	}

	entry := &models.ActivityEntry{
		GroupID: group.ID,
		UserID:  actor.UserID,
		Action:  "group_created",
		Details: name,
	}
	if err := s.store.AppendActivity(ctx, entry); err != nil {
		slog.Warn("CreateGroup: failed to append activity", "group_id", group.ID, "error", err)
	}

	return group, nil
}

// GetGroup retrieves a group the caller is an active member of.
func (s *GroupService) GetGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, _, err := authorize(ctx, s.store, groupID, userID, models.CapView)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups retrieves every group the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByUser(ctx, userID)
}

// AddMember adds a member to the group. Requires the manage_members
// capability. The owner role cannot be granted this way; a group keeps
// the single owner it was created with.
func (s *GroupService) AddMember(ctx context.Context, groupID, actorID string, member models.Member) (*models.Member, error) {
	if member.UserID == "" {
		return nil, models.Validationf("member user_id is required")
	}
	if member.Role == "" {
		member.Role = models.RoleMember
	}
	if !member.Role.Valid() {
		return nil, models.Validationf("unknown role %q", member.Role)
	}
	if member.Role == models.RoleOwner {
		return nil, models.Validationf("a group has a single owner; grant admin instead")
	}

	if _, _, err := authorize(ctx, s.store, groupID, actorID, models.CapManageMembers); err != nil {
		return nil, err
	}

	member.Active = true
	if err := s.store.AddMember(ctx, groupID, &member); err != nil {
		slog.Error("AddMember failed", "group_id", groupID, "user_id", member.UserID, "error", err)
		return nil, err
	}

	entry := &models.ActivityEntry{
		GroupID: groupID,
		UserID:  actorID,
		Action:  "member_added",
		Details: member.UserID,
	}
	if err := s.store.AppendActivity(ctx, entry); err != nil {
		slog.Warn("AddMember: failed to append activity", "group_id", groupID, "error", err)
	}

	return &member, nil
}

// RemoveMember deactivates a member. Their splits and payments remain;
// only future activity is cut off. The owner cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorID, userID string) error {
	group, _, err := authorize(ctx, s.store, groupID, actorID, models.CapManageMembers)
	if err != nil {
		return err
	}

	target := activeMember(group, userID)
	if target == nil {
		return fmt.Errorf("member %s in group %s: %w", userID, groupID, models.ErrNotFound)
	}
	if target.Role == models.RoleOwner {
		return models.Validationf("the group owner cannot be removed")
	}

	if err := s.store.DeactivateMember(ctx, groupID, userID); err != nil {
		slog.Error("RemoveMember failed", "group_id", groupID, "user_id", userID, "error", err)
		return err
	}

	entry := &models.ActivityEntry{
		GroupID: groupID,
		UserID:  actorID,
		Action:  "member_removed",
		Details: userID,
	}
	if err := s.store.AppendActivity(ctx, entry); err != nil {
		slog.Warn("RemoveMember: failed to append activity", "group_id", groupID, "error", err)
	}

	return nil
}

// ListActivity retrieves the group's activity log.
func (s *GroupService) ListActivity(ctx context.Context, groupID, userID string) ([]*models.ActivityEntry, error) {
	if _, _, err := authorize(ctx, s.store, groupID, userID, models.CapView); err != nil {
		return nil, err
	}
	return s.store.ListActivityByGroup(ctx, groupID)
}
