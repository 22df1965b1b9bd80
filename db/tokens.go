package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UpsertPasswordResetToken stores the digest of a reset token for a user,
// replacing any previous one so at most one token is active per account.
func (db *SampleBaseDB) UpsertPasswordResetToken(userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := db.DB.Exec(`
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET token_hash = $2, expires_at = $3, created_at = $4`,
		userID, tokenHash, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}
	return nil
}

// GetUserIDByResetToken returns the user whose unexpired reset token
// matches the given digest, or uuid.Nil if none does.
func (db *SampleBaseDB) GetUserIDByResetToken(tokenHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := db.DB.QueryRow(`
		SELECT user_id FROM password_reset_tokens
		WHERE token_hash = $1 AND expires_at > $2`,
		tokenHash, time.Now().UTC()).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("error looking up reset token: %w", err)
	}
	return userID, nil
}

// DeletePasswordResetToken removes a user's reset token once consumed.
func (db *SampleBaseDB) DeletePasswordResetToken(userID uuid.UUID) error {
	_, err := db.DB.Exec(`DELETE FROM password_reset_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error deleting reset token: %w", err)
	}
	return nil
}
