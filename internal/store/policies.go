package store

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/MrMEEE/yseal/internal/models"
)

const policyColumns = `p.id, p.contributor_id, p.name, p.display_name, p.description, p.repository_url, p.repository_branch, p.readme, p.documentation_url, p.license, p.is_deprecated, p.is_active, p.created_at, p.updated_at, c.name AS contributor_name`

// CreatePolicy inserts a policy and attaches the given tag names, creating
// tags as needed. A duplicate (contributor, name) pair yields ErrConflict.
func (s *Store) CreatePolicy(p *models.Policy, tags []string) (int64, error) {
	var id int64
	err := s.inTx(func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`INSERT INTO policies (contributor_id, name, display_name, description, repository_url, repository_branch, readme, documentation_url, license, is_deprecated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ContributorID, p.Name, p.DisplayName, p.Description, p.RepositoryURL, p.RepositoryBranch, p.Readme, p.DocumentationURL, p.License, p.IsDeprecated)
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
		return attachTags(tx, id, tags)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func attachTags(tx *sqlx.Tx, policyID int64, tags []string) error {
	for _, name := range tags {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
			return err
		}
		var tagID int64
		if err := tx.Get(&tagID, `SELECT id FROM tags WHERE name = ?`, name); err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO policy_tags (policy_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, policyID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// GetPolicy looks a policy up by its (contributor, name) natural key.
func (s *Store) GetPolicy(contributor, name string) (*models.Policy, error) {
	var p models.Policy
	err := s.DB.Get(&p, `SELECT `+policyColumns+` FROM policies p JOIN contributors c ON c.id = p.contributor_id WHERE c.name = ? AND p.name = ?`, contributor, name)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// TagNames returns the policy's tag names in alphabetical order.
func (s *Store) TagNames(policyID int64) ([]string, error) {
	names := []string{}
	err := s.DB.Select(&names, `SELECT t.name FROM policy_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.policy_id = ? ORDER BY t.name`, policyID)
	return names, err
}

// DownloadCount derives the policy's download count from the download log.
func (s *Store) DownloadCount(policyID int64) (int64, error) {
	var n int64
	err := s.DB.Get(&n, `SELECT COUNT(*) FROM download_logs WHERE policy_id = ?`, policyID)
	return n, err
}

// AverageRating returns the mean rating score, or nil when unrated.
func (s *Store) AverageRating(policyID int64) (*float64, error) {
	var avg *float64
	err := s.DB.Get(&avg, `SELECT AVG(score) FROM ratings WHERE policy_id = ?`, policyID)
	return avg, err
}
