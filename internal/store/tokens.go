package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
)

func hashTokenRaw(t string) string {
	h := sha256.Sum256([]byte(t))
	return hex.EncodeToString(h[:])
}

// RecordToken stores the hash of an issued token so it can be revoked later.
func (s *Store) RecordToken(ownerUserID int64, rawToken string) error {
	_, err := s.DB.Exec(`INSERT INTO tokens (owner_user_id, token_hash) VALUES (?, ?)`, ownerUserID, hashTokenRaw(rawToken))
	return err
}

// RevokeToken marks a token revoked by its raw value.
func (s *Store) RevokeToken(rawToken string) error {
	res, err := s.DB.Exec(`UPDATE tokens SET revoked_at = CURRENT_TIMESTAMP WHERE token_hash = ?`, hashTokenRaw(rawToken))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsTokenRevoked reports whether the token has been revoked. Unknown tokens
// are not revoked.
func (s *Store) IsTokenRevoked(rawToken string) (bool, error) {
	var revokedAt sql.NullTime
	if err := s.DB.Get(&revokedAt, `SELECT revoked_at FROM tokens WHERE token_hash = ?`, hashTokenRaw(rawToken)); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return revokedAt.Valid, nil
}
