package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/SampleBase/samplebase-services/internal/events"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

type SampleBaseDB struct {
	DB     *sql.DB
	Events events.Notifier
	Log    *zerolog.Logger
}

// NewSampleBaseDB is a constructor that initializes SampleBaseDB with DB and Log
func NewSampleBaseDB(notifier events.Notifier, log *zerolog.Logger) (*SampleBaseDB, error) {
	// Get the database connection string from the environment
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Error().Msg("DATABASE_URL environment variable is not set")
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	// Open the database connection
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		return nil, err
	}

	return &SampleBaseDB{
		DB:     db,
		Events: notifier,
		Log:    log,
	}, nil
}

func (db *SampleBaseDB) Close() error {
	if err := db.DB.Close(); err != nil {
		return err
	}
	db.Log.Info().Msg("database connection closed")

	db.Events.Close()
	db.Log.Info().Msg("event publisher closed")

	return nil
}

// CommitTransaction commits a transaction and maps the error.
func (db *SampleBaseDB) CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (db *SampleBaseDB) execQuery(tx *sql.Tx, query string, args ...interface{}) error {
	if db.DB == nil {
		return fmt.Errorf("database connection is not established")
	}

	_, err := tx.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

// notify publishes a lifecycle event, logging rather than failing the
// request when the broker is unavailable.
func (db *SampleBaseDB) notify(entityType, entityID, action string) {
	event := events.Event{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
	}
	if err := db.Events.Publish(event); err != nil {
		db.Log.Warn().Err(err).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Str("action", action).
			Msg("failed to publish lifecycle event")
	}
}
