package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
)

func scanPaper(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Paper, error) {
	var p models.Paper
	err := scanner.Scan(&p.ID, &p.CollectionID, &p.Title, &p.Year, &p.URL, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning paper: %w", err)
	}
	return &p, nil
}

// CreatePaper inserts a paper into a collection.
func (db *SampleBaseDB) CreatePaper(p *models.Paper) (*models.Paper, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()

	err = db.execQuery(tx, `
		INSERT INTO papers (id, collection_id, title, year, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.CollectionID, p.Title, p.Year, p.URL, p.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPaper retrieves a paper, or nil if none exists.
func (db *SampleBaseDB) GetPaper(paperID uuid.UUID) (*models.Paper, error) {
	row := db.DB.QueryRow(`
		SELECT id, collection_id, title, year, url, created_at
		FROM papers WHERE id = $1`, paperID)
	return scanPaper(row)
}

// UpdatePaper updates a paper's fields.
func (db *SampleBaseDB) UpdatePaper(p *models.Paper) error {
	_, err := db.DB.Exec(`
		UPDATE papers SET title = $1, year = $2, url = $3 WHERE id = $4`,
		p.Title, p.Year, p.URL, p.ID)
	if err != nil {
		return fmt.Errorf("error updating paper: %w", err)
	}
	return nil
}

// DeletePaper removes a paper.
func (db *SampleBaseDB) DeletePaper(paperID uuid.UUID) error {
	_, err := db.DB.Exec(`DELETE FROM papers WHERE id = $1`, paperID)
	if err != nil {
		return fmt.Errorf("error deleting paper: %w", err)
	}
	return nil
}

// GetCollectionPapers returns a collection's papers, newest first.
func (db *SampleBaseDB) GetCollectionPapers(collectionID uuid.UUID) ([]models.Paper, error) {
	rows, err := db.DB.Query(`
		SELECT id, collection_id, title, year, url, created_at
		FROM papers
		WHERE collection_id = $1
		ORDER BY created_at DESC`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving papers: %w", err)
	}
	defer rows.Close()

	var papers []models.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}
