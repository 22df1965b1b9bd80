package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
)

const sampleColumns = `
	id, collection_id, name, source, organism, qc_pass, qc_message,
	pi_name, annotator_name, description, created_at, last_modified`

func scanSample(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Sample, error) {
	var s models.Sample
	err := scanner.Scan(&s.ID, &s.CollectionID, &s.Name, &s.Source, &s.Organism,
		&s.QCPass, &s.QCMessage, &s.PIName, &s.AnnotatorName, &s.Description,
		&s.CreatedAt, &s.LastModified)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning sample: %w", err)
	}
	return &s, nil
}

// CreateSample inserts a sample into a collection.
func (db *SampleBaseDB) CreateSample(s *models.Sample) (*models.Sample, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	s.LastModified = s.CreatedAt

	err = db.execQuery(tx, `
		INSERT INTO samples (id, collection_id, name, source, organism, qc_pass,
			qc_message, pi_name, annotator_name, description, created_at, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.CollectionID, s.Name, s.Source, s.Organism, s.QCPass,
		s.QCMessage, s.PIName, s.AnnotatorName, s.Description, s.CreatedAt, s.LastModified)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSample retrieves a sample, or nil if none exists.
func (db *SampleBaseDB) GetSample(sampleID uuid.UUID) (*models.Sample, error) {
	row := db.DB.QueryRow(`SELECT`+sampleColumns+` FROM samples WHERE id = $1`, sampleID)
	return scanSample(row)
}

// UpdateSample updates a sample's fields and bumps last_modified.
func (db *SampleBaseDB) UpdateSample(s *models.Sample) error {
	s.LastModified = time.Now().UTC()
	_, err := db.DB.Exec(`
		UPDATE samples SET name = $1, source = $2, organism = $3, qc_pass = $4,
			qc_message = $5, pi_name = $6, annotator_name = $7, description = $8,
			last_modified = $9
		WHERE id = $10`,
		s.Name, s.Source, s.Organism, s.QCPass, s.QCMessage, s.PIName,
		s.AnnotatorName, s.Description, s.LastModified, s.ID)
	if err != nil {
		return fmt.Errorf("error updating sample: %w", err)
	}
	return nil
}

// DeleteSample removes a sample.
func (db *SampleBaseDB) DeleteSample(sampleID uuid.UUID) error {
	_, err := db.DB.Exec(`DELETE FROM samples WHERE id = $1`, sampleID)
	if err != nil {
		return fmt.Errorf("error deleting sample: %w", err)
	}
	return nil
}

// GetCollectionSamples returns a collection's samples, newest first.
func (db *SampleBaseDB) GetCollectionSamples(collectionID uuid.UUID) ([]models.Sample, error) {
	rows, err := db.DB.Query(`
		SELECT`+sampleColumns+` FROM samples
		WHERE collection_id = $1
		ORDER BY created_at DESC`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving samples: %w", err)
	}
	defer rows.Close()

	var samples []models.Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, *s)
	}
	return samples, rows.Err()
}
