package store

import (
	"github.com/jmoiron/sqlx"

	"github.com/MrMEEE/yseal/internal/models"
)

const versionColumns = `id, policy_id, version, git_commit, git_tag, changelog, archive_url, archive_size, checksum, dependencies, supported_systems, selinux_version, is_latest, created_at, updated_at`

// PublishVersion inserts or updates a policy version together with its
// files. When v.IsLatest is set, the latest flag is cleared on every other
// version of the policy in the same transaction, so at most one version per
// policy ever carries it. Publishing an existing version string updates the
// row in place.
func (s *Store) PublishVersion(v *models.PolicyVersion, files []models.PolicyFile) (int64, error) {
	var id int64
	err := s.inTx(func(tx *sqlx.Tx) error {
		if v.IsLatest {
			if _, err := tx.Exec(`UPDATE policy_versions SET is_latest = 0, updated_at = CURRENT_TIMESTAMP WHERE policy_id = ? AND is_latest = 1 AND version != ?`, v.PolicyID, v.Version); err != nil {
				return err
			}
		}
		_, err := tx.Exec(`INSERT INTO policy_versions (policy_id, version, git_commit, git_tag, changelog, archive_url, archive_size, checksum, dependencies, supported_systems, selinux_version, is_latest)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(policy_id, version) DO UPDATE SET
				git_commit = excluded.git_commit,
				git_tag = excluded.git_tag,
				changelog = excluded.changelog,
				archive_url = excluded.archive_url,
				archive_size = excluded.archive_size,
				checksum = excluded.checksum,
				dependencies = excluded.dependencies,
				supported_systems = excluded.supported_systems,
				selinux_version = excluded.selinux_version,
				is_latest = excluded.is_latest,
				updated_at = CURRENT_TIMESTAMP`,
			v.PolicyID, v.Version, v.GitCommit, v.GitTag, v.Changelog, v.ArchiveURL, v.ArchiveSize, v.Checksum, v.Dependencies, v.SupportedSystems, v.SELinuxVersion, v.IsLatest)
		if err != nil {
			return err
		}
		if err := tx.Get(&id, `SELECT id FROM policy_versions WHERE policy_id = ? AND version = ?`, v.PolicyID, v.Version); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM policy_files WHERE version_id = ?`, id); err != nil {
			return err
		}
		for _, f := range files {
			if _, err := tx.Exec(`INSERT INTO policy_files (version_id, file_path, file_type, content, size) VALUES (?, ?, ?, ?, ?)`,
				id, f.FilePath, f.FileType, f.Content, int64(len(f.Content))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListVersions returns a policy's versions, newest first.
func (s *Store) ListVersions(policyID int64) ([]models.PolicyVersion, error) {
	var vs []models.PolicyVersion
	err := s.DB.Select(&vs, `SELECT `+versionColumns+` FROM policy_versions WHERE policy_id = ? ORDER BY created_at DESC, id DESC`, policyID)
	return vs, err
}

// GetVersion looks a version up by its (policy, version-string) natural key.
func (s *Store) GetVersion(policyID int64, version string) (*models.PolicyVersion, error) {
	var v models.PolicyVersion
	if err := s.DB.Get(&v, `SELECT `+versionColumns+` FROM policy_versions WHERE policy_id = ? AND version = ?`, policyID, version); err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// LatestVersion returns the version flagged latest, falling back to the most
// recently created one when no version has ever been flagged. Returns
// ErrNotFound when the policy has no versions.
func (s *Store) LatestVersion(policyID int64) (*models.PolicyVersion, error) {
	var v models.PolicyVersion
	err := s.DB.Get(&v, `SELECT `+versionColumns+` FROM policy_versions WHERE policy_id = ? AND is_latest = 1`, policyID)
	if err == nil {
		return &v, nil
	}
	if err := s.DB.Get(&v, `SELECT `+versionColumns+` FROM policy_versions WHERE policy_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, policyID); err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// VersionFiles returns the files recorded for a version, ordered by path.
func (s *Store) VersionFiles(versionID int64) ([]models.PolicyFile, error) {
	var fs []models.PolicyFile
	err := s.DB.Select(&fs, `SELECT id, version_id, file_path, file_type, content, size, created_at FROM policy_files WHERE version_id = ? ORDER BY file_path`, versionID)
	return fs, err
}
