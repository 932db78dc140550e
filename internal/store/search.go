package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadOrderBy is returned for sort keys that name no sortable field.
var ErrBadOrderBy = errors.New("invalid order_by field")

// PolicyFilter describes a filtered, sorted, paginated view over the policy
// catalog. Keywords match case-insensitively as substrings against policy
// name, description, contributor name and tag names (OR). Tags narrow the
// result set one by one (AND). NameContains is the list endpoint's
// substring filter on the policy name alone.
type PolicyFilter struct {
	Keywords     string
	Contributor  string
	NameContains string
	Tags         []string
	IsDeprecated *bool
	OrderBy      string
	Limit        int
	Offset       int
}

// PolicyRow is one catalog entry. DownloadCount is derived from the
// download log at query time, never from the denormalized counter.
type PolicyRow struct {
	ID            int64     `db:"id"`
	Contributor   string    `db:"contributor_name"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	DownloadCount int64     `db:"download_count"`
	IsDeprecated  bool      `db:"is_deprecated"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// sortable maps order_by field names to SQL expressions.
var sortable = map[string]string{
	"name":           "p.name",
	"created_at":     "p.created_at",
	"updated_at":     "p.updated_at",
	"download_count": "download_count",
}

func orderClause(orderBy string) (string, error) {
	switch orderBy {
	case "", "-relevance", "-updated_at":
		// No relevance scoring exists; -relevance falls back to most
		// recently updated first.
		return "p.updated_at DESC, p.id DESC", nil
	case "-download_count":
		return "download_count DESC, p.updated_at DESC", nil
	case "name":
		return "p.name ASC", nil
	}
	field := orderBy
	dir := "ASC"
	if strings.HasPrefix(orderBy, "-") {
		field = orderBy[1:]
		dir = "DESC"
	}
	expr, ok := sortable[field]
	if !ok {
		return "", ErrBadOrderBy
	}
	return expr + " " + dir, nil
}

// SearchPolicies returns the page of policies matching f plus the total
// match count.
func (s *Store) SearchPolicies(f PolicyFilter) ([]PolicyRow, int64, error) {
	order, err := orderClause(f.OrderBy)
	if err != nil {
		return nil, 0, err
	}

	var clauses []string
	var args []interface{}

	if f.Keywords != "" {
		kw := "%" + strings.ToLower(f.Keywords) + "%"
		clauses = append(clauses, `(LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(c.name) LIKE ?
			OR EXISTS (SELECT 1 FROM policy_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.policy_id = p.id AND LOWER(t.name) LIKE ?))`)
		args = append(args, kw, kw, kw, kw)
	}
	if f.Contributor != "" {
		clauses = append(clauses, `c.name = ?`)
		args = append(args, f.Contributor)
	}
	if f.NameContains != "" {
		clauses = append(clauses, `LOWER(p.name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.NameContains)+"%")
	}
	// Each tag narrows the set: AND semantics, one EXISTS per tag.
	for _, tag := range f.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		clauses = append(clauses, `EXISTS (SELECT 1 FROM policy_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.policy_id = p.id AND LOWER(t.name) = LOWER(?))`)
		args = append(args, tag)
	}
	if f.IsDeprecated != nil {
		clauses = append(clauses, `p.is_deprecated = ?`)
		args = append(args, *f.IsDeprecated)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	from := ` FROM policies p JOIN contributors c ON c.id = p.contributor_id`

	var total int64
	if err := s.DB.Get(&total, `SELECT COUNT(*)`+from+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT p.id, c.name AS contributor_name, p.name, p.description,
		(SELECT COUNT(*) FROM download_logs dl WHERE dl.policy_id = p.id) AS download_count,
		p.is_deprecated, p.created_at, p.updated_at`+from+where+` ORDER BY %s LIMIT ? OFFSET ?`, order)
	args = append(args, f.Limit, f.Offset)

	rows := []PolicyRow{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
