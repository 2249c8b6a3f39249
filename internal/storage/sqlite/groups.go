package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// CreateGroup persists a new group and its initial members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.RunAtomic(ctx, func(st storage.Store) error {
		q := st.(*SQLiteStore).q()

		_, err := q.ExecContext(ctx,
			"INSERT INTO groups (id, name, created_by, created_at) VALUES (?, ?, ?, ?)",
			group.ID, group.Name, group.CreatedBy, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		for i := range group.Members {
			m := &group.Members[i]
			if m.JoinedAt == 0 {
				m.JoinedAt = group.CreatedAt
			}
			if err := insertMember(ctx, q, group.ID, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertMember(ctx context.Context, q querier, groupID string, m *models.Member) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, name, email, role, active, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(group_id, user_id) DO UPDATE SET
		   name = excluded.name, email = excluded.email, role = excluded.role, active = excluded.active`,
		groupID, m.UserID, m.Name, m.Email, string(m.Role), boolToInt(m.Active), m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetGroup retrieves a group with all its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.q().QueryRowContext(ctx,
		"SELECT id, name, created_by, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.listMembers(ctx, groupID, false)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// ListGroupsByUser retrieves every group the user is an active member of.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT g.id, g.name, g.created_by, g.created_at
		 FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = ? AND gm.active = 1
		 ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// AddMember adds (or reactivates) a member of a group.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID string, member *models.Member) error {
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}
	return insertMember(ctx, s.q(), groupID, member)
}

// DeactivateMember marks a member inactive without deleting their history.
func (s *SQLiteStore) DeactivateMember(ctx context.Context, groupID, userID string) error {
	res, err := s.q().ExecContext(ctx,
		"UPDATE group_members SET active = 0 WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member %s in group %s: %w", userID, groupID, models.ErrNotFound)
	}
	return nil
}

// ListActiveMembers retrieves the active members of a group.
func (s *SQLiteStore) ListActiveMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	return s.listMembers(ctx, groupID, true)
}

func (s *SQLiteStore) listMembers(ctx context.Context, groupID string, activeOnly bool) ([]models.Member, error) {
	query := `SELECT user_id, name, email, role, active, joined_at
	          FROM group_members WHERE group_id = ?`
	if activeOnly {
		query += " AND active = 1"
	}
	query += " ORDER BY joined_at, user_id"

	rows, err := s.q().QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var role string
		var active int
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &role, &active, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = models.Role(role)
		m.Active = active != 0
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetMember retrieves one member row, active or not.
func (s *SQLiteStore) GetMember(ctx context.Context, groupID, userID string) (*models.Member, error) {
	m := &models.Member{}
	var role string
	var active int
	err := s.q().QueryRowContext(ctx,
		`SELECT user_id, name, email, role, active, joined_at
		 FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&m.UserID, &m.Name, &m.Email, &role, &active, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %s in group %s: %w", userID, groupID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	m.Role = models.Role(role)
	m.Active = active != 0
	return m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
