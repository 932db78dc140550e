package store

import (
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MrMEEE/yseal/internal/models"
)

// PersonalSlug derives the personal contributor slug for a username.
func PersonalSlug(username string) string {
	return strings.ReplaceAll(strings.ToLower(username), "_", "-")
}

// CreateUser inserts a user, its profile and, when the derived slug is
// free, a personal contributor owned by the new user. Everything happens in
// one transaction so identity creation and provisioning cannot diverge.
//
// When the slug is already taken by another contributor, provisioning is
// skipped and existing ownership is left untouched; the new user simply has
// no personal contributor.
func (s *Store) CreateUser(u *models.User, passwordHash string) (int64, error) {
	var id int64
	err := s.inTx(func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`INSERT INTO users (username, email, password_hash, first_name, last_name) VALUES (?, ?, ?, ?, ?)`,
			u.Username, u.Email, passwordHash, u.FirstName, u.LastName)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO user_profiles (user_id, email_verification_token) VALUES (?, ?)`,
			id, uuid.NewString()); err != nil {
			return err
		}
		return provisionPersonalContributor(tx, id, u)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func provisionPersonalContributor(tx *sqlx.Tx, userID int64, u *models.User) error {
	slug := PersonalSlug(u.Username)
	var exists int
	if err := tx.Get(&exists, `SELECT COUNT(*) FROM contributors WHERE name = ?`, slug); err != nil {
		return err
	}
	if exists > 0 {
		log.Printf("personal contributor %q already exists, skipping provisioning for user %q", slug, u.Username)
		return nil
	}
	res, err := tx.Exec(`INSERT INTO contributors (name, display_name, email, is_personal) VALUES (?, ?, ?, 1)`,
		slug, u.FullName(), u.Email)
	if err != nil {
		return err
	}
	cid, err := res.LastInsertId()
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO contributor_owners (contributor_id, user_id) VALUES (?, ?)`, cid, userID)
	return err
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	if err := s.DB.Get(&u, `SELECT id, username, email, password_hash, first_name, last_name, is_staff, is_verified, created_at, updated_at FROM users WHERE username = ?`, username); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) GetUserByID(id int64) (*models.User, error) {
	var u models.User
	if err := s.DB.Get(&u, `SELECT id, username, email, password_hash, first_name, last_name, is_staff, is_verified, created_at, updated_at FROM users WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) GetProfile(userID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := s.DB.Get(&p, `SELECT id, user_id, notification_preferences, email_verified, email_verification_token, created_at, updated_at FROM user_profiles WHERE user_id = ?`, userID); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}
