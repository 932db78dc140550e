package store

// TagWithCount pairs a tag name with the number of policies carrying it.
type TagWithCount struct {
	Name        string `db:"name" json:"name"`
	PolicyCount int64  `db:"policy_count" json:"policy_count"`
}

// ListTags returns all tags alphabetically with a live policy count.
func (s *Store) ListTags(limit, offset int) ([]TagWithCount, int64, error) {
	var total int64
	if err := s.DB.Get(&total, `SELECT COUNT(*) FROM tags`); err != nil {
		return nil, 0, err
	}
	var ts []TagWithCount
	err := s.DB.Select(&ts, `SELECT t.name, (SELECT COUNT(*) FROM policy_tags pt WHERE pt.tag_id = t.id) AS policy_count
		FROM tags t ORDER BY t.name LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return ts, total, nil
}
