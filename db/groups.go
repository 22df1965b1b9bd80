package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
)

// CreateGroup inserts a group and makes the creator its first admin.
func (db *SampleBaseDB) CreateGroup(group *models.Group, creatorID uuid.UUID) (*models.Group, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	group.ID = uuid.New()
	group.CreatedAt = time.Now().UTC()

	err = db.execQuery(tx, `
		INSERT INTO groups (id, slug, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		group.ID, group.Slug, group.Name, group.Description, group.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	err = db.execQuery(tx, `
		INSERT INTO group_members (group_id, user_id, is_admin)
		VALUES ($1, $2, TRUE)`,
		group.ID, creatorID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}

	db.notify("group", group.ID.String(), "created")
	return group, nil
}

// GetGroup retrieves a group, or nil if none exists.
func (db *SampleBaseDB) GetGroup(groupID uuid.UUID) (*models.Group, error) {
	row := db.DB.QueryRow(`
		SELECT id, slug, name, description, created_at,
			(SELECT COUNT(*) FROM group_members WHERE group_id = groups.id)
		FROM groups WHERE id = $1`, groupID)

	var g models.Group
	if err := row.Scan(&g.ID, &g.Slug, &g.Name, &g.Description, &g.CreatedAt,
		&g.UserCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning group: %w", err)
	}
	return &g, nil
}

// GetGroupBySlug retrieves a group by its slug, or nil if none exists.
func (db *SampleBaseDB) GetGroupBySlug(slug string) (*models.Group, error) {
	row := db.DB.QueryRow(`
		SELECT id, slug, name, description, created_at,
			(SELECT COUNT(*) FROM group_members WHERE group_id = groups.id)
		FROM groups WHERE slug = $1`, slug)

	var g models.Group
	if err := row.Scan(&g.ID, &g.Slug, &g.Name, &g.Description, &g.CreatedAt,
		&g.UserCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning group: %w", err)
	}
	return &g, nil
}

// GroupNameTaken reports whether a group with the given name exists.
func (db *SampleBaseDB) GroupNameTaken(name string) (bool, error) {
	var count int
	err := db.DB.QueryRow(`SELECT COUNT(*) FROM groups WHERE name = $1`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error checking group name: %w", err)
	}
	return count > 0, nil
}

// UpdateGroup updates a group's name and description.
func (db *SampleBaseDB) UpdateGroup(group *models.Group) error {
	_, err := db.DB.Exec(`
		UPDATE groups SET name = $1, description = $2 WHERE id = $3`,
		group.Name, group.Description, group.ID)
	if err != nil {
		return fmt.Errorf("error updating group: %w", err)
	}

	db.notify("group", group.ID.String(), "updated")
	return nil
}

// DeleteGroup removes a group. Memberships, invitations and collection
// shares cascade.
func (db *SampleBaseDB) DeleteGroup(groupID uuid.UUID) error {
	_, err := db.DB.Exec(`DELETE FROM groups WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("error deleting group: %w", err)
	}

	db.notify("group", groupID.String(), "deleted")
	return nil
}

// GetGroupUsers returns a group's members, admins first.
func (db *SampleBaseDB) GetGroupUsers(groupID uuid.UUID) ([]models.User, error) {
	rows, err := db.DB.Query(`
		SELECT u.id, u.username, u.name, u.image, u.created_at
		FROM users u
		JOIN group_members m ON m.user_id = u.id
		WHERE m.group_id = $1
		ORDER BY m.is_admin DESC, u.created_at`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving group members: %w", err)
	}
	defer rows.Close()
	return scanPublicUsers(rows)
}

// GetGroupAdmins returns a group's admins.
func (db *SampleBaseDB) GetGroupAdmins(groupID uuid.UUID) ([]models.User, error) {
	rows, err := db.DB.Query(`
		SELECT u.id, u.username, u.name, u.image, u.created_at
		FROM users u
		JOIN group_members m ON m.user_id = u.id
		WHERE m.group_id = $1 AND m.is_admin
		ORDER BY u.created_at`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving group admins: %w", err)
	}
	defer rows.Close()
	return scanPublicUsers(rows)
}

func scanPublicUsers(rows *sql.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Image, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// IsGroupMember reports whether the user belongs to the group.
func (db *SampleBaseDB) IsGroupMember(groupID, userID uuid.UUID) (bool, error) {
	var count int
	err := db.DB.QueryRow(`
		SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return count > 0, nil
}

// IsGroupAdmin reports whether the user is an admin of the group.
func (db *SampleBaseDB) IsGroupAdmin(groupID, userID uuid.UUID) (bool, error) {
	var count int
	err := db.DB.QueryRow(`
		SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND user_id = $2 AND is_admin`,
		groupID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error checking admin status: %w", err)
	}
	return count > 0, nil
}

// AddGroupMember adds a user to a group.
func (db *SampleBaseDB) AddGroupMember(groupID, userID uuid.UUID) error {
	_, err := db.DB.Exec(`
		INSERT INTO group_members (group_id, user_id, is_admin)
		VALUES ($1, $2, FALSE)`, groupID, userID)
	if err != nil {
		return fmt.Errorf("error adding group member: %w", err)
	}
	return nil
}

// RemoveGroupMember removes a user from a group.
func (db *SampleBaseDB) RemoveGroupMember(groupID, userID uuid.UUID) error {
	_, err := db.DB.Exec(`
		DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID)
	if err != nil {
		return fmt.Errorf("error removing group member: %w", err)
	}
	return nil
}

// SetGroupAdmin grants or revokes admin status for an existing member.
func (db *SampleBaseDB) SetGroupAdmin(groupID, userID uuid.UUID, isAdmin bool) error {
	_, err := db.DB.Exec(`
		UPDATE group_members SET is_admin = $1 WHERE group_id = $2 AND user_id = $3`,
		isAdmin, groupID, userID)
	if err != nil {
		return fmt.Errorf("error setting admin status: %w", err)
	}
	return nil
}

// CountGroupAdmins returns the number of admins in a group.
func (db *SampleBaseDB) CountGroupAdmins(groupID uuid.UUID) (int, error) {
	var count int
	err := db.DB.QueryRow(`
		SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND is_admin`,
		groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting admins: %w", err)
	}
	return count, nil
}

// GetUserGroups returns the groups a user belongs to, admin groups first.
func (db *SampleBaseDB) GetUserGroups(userID uuid.UUID) ([]models.Group, error) {
	rows, err := db.DB.Query(`
		SELECT g.id, g.slug, g.name, g.description, g.created_at, m.is_admin,
			(SELECT COUNT(*) FROM group_members WHERE group_id = g.id)
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY m.is_admin DESC, g.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving user groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Slug, &g.Name, &g.Description, &g.CreatedAt,
			&g.IsAdmin, &g.UserCount); err != nil {
			return nil, fmt.Errorf("error scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
