package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
)

const userColumns = `id, username, email, name, image, password, last_login, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Image,
		&u.PasswordHash, &u.LastLogin, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new user. The caller supplies the password hash.
func (db *SampleBaseDB) CreateUser(user *models.User) (*models.User, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()

	err = db.execQuery(tx, `
		INSERT INTO users (id, username, email, name, image, password, last_login, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.Email, user.Name, user.Image,
		user.PasswordHash, user.LastLogin, user.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}

	db.notify("user", user.ID.String(), "created")
	return user, nil
}

// GetUserByID retrieves a user, or nil if none exists.
func (db *SampleBaseDB) GetUserByID(userID uuid.UUID) (*models.User, error) {
	row := db.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by username, or nil if none exists.
func (db *SampleBaseDB) GetUserByUsername(username string) (*models.User, error) {
	row := db.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email address, or nil if none exists.
func (db *SampleBaseDB) GetUserByEmail(email string) (*models.User, error) {
	row := db.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UpdateUser updates a user's profile fields.
func (db *SampleBaseDB) UpdateUser(user *models.User) error {
	_, err := db.DB.Exec(`
		UPDATE users SET email = $1, name = $2, image = $3 WHERE id = $4`,
		user.Email, user.Name, user.Image, user.ID)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// UpdateUserPassword replaces a user's password hash.
func (db *SampleBaseDB) UpdateUserPassword(userID uuid.UUID, hash string) error {
	_, err := db.DB.Exec(`UPDATE users SET password = $1 WHERE id = $2`, hash, userID)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps a user's last login time.
func (db *SampleBaseDB) UpdateLastLogin(userID uuid.UUID) error {
	_, err := db.DB.Exec(`UPDATE users SET last_login = $1 WHERE id = $2`,
		time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// DeleteUser removes a user. Memberships, invitations and share links
// cascade; the caller is responsible for the owned-collections and
// sole-admin preconditions.
func (db *SampleBaseDB) DeleteUser(userID uuid.UUID) error {
	_, err := db.DB.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	db.notify("user", userID.String(), "deleted")
	return nil
}

// CountOwnedCollections returns the number of collections a user owns.
func (db *SampleBaseDB) CountOwnedCollections(userID uuid.UUID) (int, error) {
	var count int
	err := db.DB.QueryRow(`SELECT COUNT(*) FROM collections WHERE owner_id = $1`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting owned collections: %w", err)
	}
	return count, nil
}

// SoleAdminGroups returns the groups in which the user is the only admin
// while other members remain. Deleting the account would leave those groups
// without an admin.
func (db *SampleBaseDB) SoleAdminGroups(userID uuid.UUID) ([]models.Group, error) {
	rows, err := db.DB.Query(`
		SELECT g.id, g.slug, g.name, g.description, g.created_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id AND m.user_id = $1 AND m.is_admin
		WHERE (SELECT COUNT(*) FROM group_members a WHERE a.group_id = g.id AND a.is_admin) = 1
		AND (SELECT COUNT(*) FROM group_members u WHERE u.group_id = g.id) > 1`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving sole admin groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Slug, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
