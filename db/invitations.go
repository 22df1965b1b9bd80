package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
)

const invitationQuery = `
	SELECT i.id, i.created_at,
		u.id, u.username, u.name, u.image, u.created_at,
		g.id, g.slug, g.name, g.description, g.created_at`

func scanInvitation(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Invitation, error) {
	var inv models.Invitation
	err := scanner.Scan(&inv.ID, &inv.CreatedAt,
		&inv.User.ID, &inv.User.Username, &inv.User.Name, &inv.User.Image, &inv.User.CreatedAt,
		&inv.Group.ID, &inv.Group.Slug, &inv.Group.Name, &inv.Group.Description, &inv.Group.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning invitation: %w", err)
	}
	return &inv, nil
}

// CreateInvitation records a pending invitation for a user to join a group.
// The (group, user) pair is unique.
func (db *SampleBaseDB) CreateInvitation(groupID, userID uuid.UUID) (*models.Invitation, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	invitationID := uuid.New()
	createdAt := time.Now().UTC()

	err = db.execQuery(tx, `
		INSERT INTO group_invitations (id, group_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		invitationID, groupID, userID, createdAt)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}

	return db.GetInvitation(invitationID)
}

// GetInvitation retrieves an invitation with its user and group expanded,
// or nil if none exists.
func (db *SampleBaseDB) GetInvitation(invitationID uuid.UUID) (*models.Invitation, error) {
	row := db.DB.QueryRow(invitationQuery+`
		FROM group_invitations i
		JOIN users u ON u.id = i.user_id
		JOIN groups g ON g.id = i.group_id
		WHERE i.id = $1`, invitationID)
	return scanInvitation(row)
}

// InvitationExists reports whether the user already has a pending
// invitation to the group.
func (db *SampleBaseDB) InvitationExists(groupID, userID uuid.UUID) (bool, error) {
	var count int
	err := db.DB.QueryRow(`
		SELECT COUNT(*) FROM group_invitations WHERE group_id = $1 AND user_id = $2`,
		groupID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error checking invitation: %w", err)
	}
	return count > 0, nil
}

// GetGroupInvitations returns the pending invitations for a group.
func (db *SampleBaseDB) GetGroupInvitations(groupID uuid.UUID) ([]models.Invitation, error) {
	return db.getInvitations(`i.group_id`, groupID)
}

// GetUserInvitations returns a user's pending invitations.
func (db *SampleBaseDB) GetUserInvitations(userID uuid.UUID) ([]models.Invitation, error) {
	return db.getInvitations(`i.user_id`, userID)
}

func (db *SampleBaseDB) getInvitations(column string, id uuid.UUID) ([]models.Invitation, error) {
	rows, err := db.DB.Query(invitationQuery+`
		FROM group_invitations i
		JOIN users u ON u.id = i.user_id
		JOIN groups g ON g.id = i.group_id
		WHERE `+column+` = $1
		ORDER BY i.created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// AcceptInvitation adds the invitee to the group and removes the
// invitation in a single transaction.
func (db *SampleBaseDB) AcceptInvitation(invitationID, groupID, userID uuid.UUID) error {
	tx, err := db.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	err = db.execQuery(tx, `
		INSERT INTO group_members (group_id, user_id, is_admin)
		VALUES ($1, $2, FALSE)`, groupID, userID)
	if err != nil {
		tx.Rollback()
		return err
	}

	err = db.execQuery(tx, `DELETE FROM group_invitations WHERE id = $1`, invitationID)
	if err != nil {
		tx.Rollback()
		return err
	}

	return db.CommitTransaction(tx)
}

// DeleteInvitation removes an invitation.
func (db *SampleBaseDB) DeleteInvitation(invitationID uuid.UUID) error {
	_, err := db.DB.Exec(`DELETE FROM group_invitations WHERE id = $1`, invitationID)
	if err != nil {
		return fmt.Errorf("error deleting invitation: %w", err)
	}
	return nil
}
