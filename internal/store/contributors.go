package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MrMEEE/yseal/internal/models"
)

const contributorColumns = `id, name, display_name, description, avatar_url, company, website, email, is_verified, is_active, is_personal, created_at, updated_at`

// ErrContributorHasPolicies is returned by DeleteContributor when dependent
// policies still reference the contributor.
type ErrContributorHasPolicies struct {
	Name  string
	Count int64
}

func (e *ErrContributorHasPolicies) Error() string {
	return fmt.Sprintf("Cannot delete contributor '%s'. It has %d associated policies.", e.Name, e.Count)
}

// CreateContributor inserts an organization contributor with owner as its
// first owner.
func (s *Store) CreateContributor(c *models.Contributor, ownerID int64) (int64, error) {
	var id int64
	err := s.inTx(func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`INSERT INTO contributors (name, display_name, description, avatar_url, company, website, email, is_personal) VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
			c.Name, c.DisplayName, c.Description, c.AvatarURL, c.Company, c.Website, c.Email)
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
		_, err = tx.Exec(`INSERT INTO contributor_owners (contributor_id, user_id) VALUES (?, ?)`, id, ownerID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetContributorByName(name string) (*models.Contributor, error) {
	var c models.Contributor
	if err := s.DB.Get(&c, `SELECT `+contributorColumns+` FROM contributors WHERE name = ?`, name); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) ListContributors(limit, offset int) ([]models.Contributor, int64, error) {
	var total int64
	if err := s.DB.Get(&total, `SELECT COUNT(*) FROM contributors`); err != nil {
		return nil, 0, err
	}
	var cs []models.Contributor
	if err := s.DB.Select(&cs, `SELECT `+contributorColumns+` FROM contributors ORDER BY name LIMIT ? OFFSET ?`, limit, offset); err != nil {
		return nil, 0, err
	}
	return cs, total, nil
}

func (s *Store) UpdateContributor(c *models.Contributor) error {
	res, err := s.DB.Exec(`UPDATE contributors SET display_name = ?, description = ?, avatar_url = ?, company = ?, website = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
		c.DisplayName, c.Description, c.AvatarURL, c.Company, c.Website, c.Email, c.Name)
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

// DeleteContributor removes a contributor. Deletion is blocked while any
// policy references it.
func (s *Store) DeleteContributor(name string) error {
	return s.inTx(func(tx *sqlx.Tx) error {
		var id int64
		if err := tx.Get(&id, `SELECT id FROM contributors WHERE name = ?`, name); err != nil {
			return notFound(err)
		}
		var count int64
		if err := tx.Get(&count, `SELECT COUNT(*) FROM policies WHERE contributor_id = ?`, id); err != nil {
			return err
		}
		if count > 0 {
			return &ErrContributorHasPolicies{Name: name, Count: count}
		}
		_, err := tx.Exec(`DELETE FROM contributors WHERE id = ?`, id)
		return err
	})
}

// IsOwner reports whether userID owns the contributor.
func (s *Store) IsOwner(contributorID, userID int64) (bool, error) {
	var n int
	if err := s.DB.Get(&n, `SELECT COUNT(*) FROM contributor_owners WHERE contributor_id = ? AND user_id = ?`, contributorID, userID); err != nil {
		return false, err
	}
	return n > 0, nil
}

// OwnerNames returns the usernames of the contributor's owners.
func (s *Store) OwnerNames(contributorID int64) ([]string, error) {
	names := []string{}
	err := s.DB.Select(&names, `SELECT u.username FROM contributor_owners co JOIN users u ON u.id = co.user_id WHERE co.contributor_id = ? ORDER BY u.username`, contributorID)
	return names, err
}

// OwnedContributors returns the contributors owned by a user, ordered by name.
func (s *Store) OwnedContributors(userID int64) ([]models.Contributor, error) {
	var cs []models.Contributor
	err := s.DB.Select(&cs, `SELECT c.id, c.name, c.display_name, c.description, c.avatar_url, c.company, c.website, c.email, c.is_verified, c.is_active, c.is_personal, c.created_at, c.updated_at
		FROM contributors c JOIN contributor_owners co ON co.contributor_id = c.id WHERE co.user_id = ? ORDER BY c.name`, userID)
	return cs, err
}
