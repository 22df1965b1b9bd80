package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
)

// CollectionAccess is the resolved access a user has to a collection,
// combining ownership, direct shares and group shares.
type CollectionAccess struct {
	IsOwner    bool
	CanView    bool
	CanEdit    bool
	CanExecute bool
}

const collectionColumns = `
	c.id, u.username, c.name, c.description, c.private, c.created_at, c.last_modified`

func scanCollection(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Collection, error) {
	var c models.Collection
	err := scanner.Scan(&c.ID, &c.Owner, &c.Name, &c.Description, &c.Private,
		&c.CreatedAt, &c.LastModified)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning collection: %w", err)
	}
	return &c, nil
}

// CreateCollection inserts a collection owned by the given user.
func (db *SampleBaseDB) CreateCollection(c *models.Collection, ownerID uuid.UUID) (*models.Collection, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	c.LastModified = c.CreatedAt

	err = db.execQuery(tx, `
		INSERT INTO collections (id, owner_id, name, description, private, created_at, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, ownerID, c.Name, c.Description, c.Private, c.CreatedAt, c.LastModified)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}

	db.notify("collection", c.ID.String(), "created")
	return c, nil
}

// GetCollection retrieves a collection, or nil if none exists.
func (db *SampleBaseDB) GetCollection(collectionID uuid.UUID) (*models.Collection, error) {
	row := db.DB.QueryRow(`
		SELECT`+collectionColumns+`
		FROM collections c JOIN users u ON u.id = c.owner_id
		WHERE c.id = $1`, collectionID)
	return scanCollection(row)
}

// UpdateCollection updates a collection's fields and bumps last_modified.
func (db *SampleBaseDB) UpdateCollection(c *models.Collection) error {
	c.LastModified = time.Now().UTC()
	_, err := db.DB.Exec(`
		UPDATE collections SET name = $1, description = $2, private = $3, last_modified = $4
		WHERE id = $5`,
		c.Name, c.Description, c.Private, c.LastModified, c.ID)
	if err != nil {
		return fmt.Errorf("error updating collection: %w", err)
	}

	db.notify("collection", c.ID.String(), "updated")
	return nil
}

// DeleteCollection removes a collection. Samples, papers and share links
// cascade.
func (db *SampleBaseDB) DeleteCollection(collectionID uuid.UUID) error {
	_, err := db.DB.Exec(`DELETE FROM collections WHERE id = $1`, collectionID)
	if err != nil {
		return fmt.Errorf("error deleting collection: %w", err)
	}

	db.notify("collection", collectionID.String(), "deleted")
	return nil
}

// GetOwnedCollections returns the collections a user owns, newest first.
// When publicOnly is set, private collections are filtered out (the
// restricted profile view).
func (db *SampleBaseDB) GetOwnedCollections(userID uuid.UUID, publicOnly bool) ([]models.Collection, error) {
	query := `
		SELECT` + collectionColumns + `
		FROM collections c JOIN users u ON u.id = c.owner_id
		WHERE c.owner_id = $1`
	if publicOnly {
		query += ` AND NOT c.private`
	}
	query += ` ORDER BY c.created_at DESC`

	return db.queryCollections(query, userID)
}

// GetSharedCollections returns the collections shared with a user directly
// or through one of their groups, newest first.
func (db *SampleBaseDB) GetSharedCollections(userID uuid.UUID, publicOnly bool) ([]models.Collection, error) {
	query := `
		SELECT DISTINCT` + collectionColumns + `
		FROM collections c
		JOIN users u ON u.id = c.owner_id
		LEFT JOIN collection_users cu ON cu.collection_id = c.id AND cu.user_id = $1
		LEFT JOIN collection_groups cg ON cg.collection_id = c.id
		LEFT JOIN group_members m ON m.group_id = cg.group_id AND m.user_id = $1
		WHERE (cu.user_id IS NOT NULL OR m.user_id IS NOT NULL)`
	if publicOnly {
		query += ` AND NOT c.private`
	}
	query += ` ORDER BY c.created_at DESC`

	return db.queryCollections(query, userID)
}

// GetPublicCollections returns a page of public collections, newest first,
// along with the total count.
func (db *SampleBaseDB) GetPublicCollections(limit, offset int) ([]models.Collection, int, error) {
	var total int
	err := db.DB.QueryRow(`SELECT COUNT(*) FROM collections WHERE NOT private`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting public collections: %w", err)
	}

	collections, err := db.queryCollections(`
		SELECT`+collectionColumns+`
		FROM collections c JOIN users u ON u.id = c.owner_id
		WHERE NOT c.private
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return collections, total, nil
}

func (db *SampleBaseDB) queryCollections(query string, args ...interface{}) ([]models.Collection, error) {
	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving collections: %w", err)
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, *c)
	}
	return collections, rows.Err()
}

// GetCollectionAccess resolves what the given user may do with the given
// collection. Owners get everything; a direct share takes precedence over
// group shares.
func (db *SampleBaseDB) GetCollectionAccess(collectionID, userID uuid.UUID) (CollectionAccess, error) {
	var access CollectionAccess

	var private bool
	var ownerID uuid.UUID
	err := db.DB.QueryRow(`SELECT private, owner_id FROM collections WHERE id = $1`,
		collectionID).Scan(&private, &ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return access, nil
		}
		return access, fmt.Errorf("error resolving collection access: %w", err)
	}

	if ownerID == userID {
		return CollectionAccess{IsOwner: true, CanView: true, CanEdit: true, CanExecute: true}, nil
	}

	var canEdit, canExecute bool
	err = db.DB.QueryRow(`
		SELECT can_edit, can_execute FROM collection_users
		WHERE collection_id = $1 AND user_id = $2`,
		collectionID, userID).Scan(&canEdit, &canExecute)
	if err == nil {
		return CollectionAccess{CanView: true, CanEdit: canEdit, CanExecute: canExecute}, nil
	}
	if err != sql.ErrNoRows {
		return access, fmt.Errorf("error resolving collection access: %w", err)
	}

	var groupEdit sql.NullBool
	err = db.DB.QueryRow(`
		SELECT BOOL_OR(cg.can_edit)
		FROM collection_groups cg
		JOIN group_members m ON m.group_id = cg.group_id AND m.user_id = $2
		WHERE cg.collection_id = $1`,
		collectionID, userID).Scan(&groupEdit)
	if err != nil {
		return access, fmt.Errorf("error resolving collection access: %w", err)
	}
	if groupEdit.Valid {
		return CollectionAccess{CanView: true, CanEdit: groupEdit.Bool}, nil
	}

	access.CanView = !private
	return access, nil
}

// GetCollectionUsers returns the direct user shares of a collection.
func (db *SampleBaseDB) GetCollectionUsers(collectionID uuid.UUID) ([]models.CollectionUser, error) {
	rows, err := db.DB.Query(`
		SELECT u.id, u.username, u.name, u.image, u.created_at, cu.can_edit, cu.can_execute
		FROM collection_users cu
		JOIN users u ON u.id = cu.user_id
		WHERE cu.collection_id = $1
		ORDER BY u.created_at`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving collection users: %w", err)
	}
	defer rows.Close()

	var links []models.CollectionUser
	for rows.Next() {
		var l models.CollectionUser
		if err := rows.Scan(&l.User.ID, &l.User.Username, &l.User.Name, &l.User.Image,
			&l.User.CreatedAt, &l.CanEdit, &l.CanExecute); err != nil {
			return nil, fmt.Errorf("error scanning collection user: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// GetCollectionGroups returns the group shares of a collection.
func (db *SampleBaseDB) GetCollectionGroups(collectionID uuid.UUID) ([]models.CollectionGroup, error) {
	rows, err := db.DB.Query(`
		SELECT g.id, g.slug, g.name, g.description, g.created_at, cg.can_edit
		FROM collection_groups cg
		JOIN groups g ON g.id = cg.group_id
		WHERE cg.collection_id = $1
		ORDER BY g.created_at`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving collection groups: %w", err)
	}
	defer rows.Close()

	var links []models.CollectionGroup
	for rows.Next() {
		var l models.CollectionGroup
		if err := rows.Scan(&l.Group.ID, &l.Group.Slug, &l.Group.Name,
			&l.Group.Description, &l.Group.CreatedAt, &l.CanEdit); err != nil {
			return nil, fmt.Errorf("error scanning collection group: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// ShareCollectionWithUser creates or updates a direct user share.
func (db *SampleBaseDB) ShareCollectionWithUser(collectionID, userID uuid.UUID, canEdit, canExecute bool) error {
	_, err := db.DB.Exec(`
		INSERT INTO collection_users (collection_id, user_id, can_edit, can_execute)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection_id, user_id)
		DO UPDATE SET can_edit = $3, can_execute = $4`,
		collectionID, userID, canEdit, canExecute)
	if err != nil {
		return fmt.Errorf("error sharing collection with user: %w", err)
	}
	return nil
}

// UnshareCollectionWithUser removes a direct user share.
func (db *SampleBaseDB) UnshareCollectionWithUser(collectionID, userID uuid.UUID) error {
	_, err := db.DB.Exec(`
		DELETE FROM collection_users WHERE collection_id = $1 AND user_id = $2`,
		collectionID, userID)
	if err != nil {
		return fmt.Errorf("error unsharing collection: %w", err)
	}
	return nil
}

// ShareCollectionWithGroup creates or updates a group share.
func (db *SampleBaseDB) ShareCollectionWithGroup(collectionID, groupID uuid.UUID, canEdit bool) error {
	_, err := db.DB.Exec(`
		INSERT INTO collection_groups (collection_id, group_id, can_edit)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection_id, group_id)
		DO UPDATE SET can_edit = $3`,
		collectionID, groupID, canEdit)
	if err != nil {
		return fmt.Errorf("error sharing collection with group: %w", err)
	}
	return nil
}

// UnshareCollectionWithGroup removes a group share.
func (db *SampleBaseDB) UnshareCollectionWithGroup(collectionID, groupID uuid.UUID) error {
	_, err := db.DB.Exec(`
		DELETE FROM collection_groups WHERE collection_id = $1 AND group_id = $2`,
		collectionID, groupID)
	if err != nil {
		return fmt.Errorf("error unsharing collection: %w", err)
	}
	return nil
}
