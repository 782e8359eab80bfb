package persistence

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a list may be ordered by
type sortColumns map[string]struct{}

func newSortColumns(cols ...string) sortColumns {
	s := make(sortColumns, len(cols))
	for _, c := range cols {
		s[c] = struct{}{}
	}
	return s
}

var (
	itemSortColumns      = newSortColumns("name", "item_code", "item_name", "item_group", "created_at", "updated_at")
	itemGroupSortColumns = newSortColumns("name", "parent_item_group", "created_at", "updated_at")
)

// orderBy returns the ORDER BY column for a requested field and direction.
// Unknown fields fall back to fallback; any direction but "asc" sorts descending.
func (s sortColumns) orderBy(field, dir, fallback string) clause.OrderByColumn {
	field = strings.TrimSpace(field)
	if _, ok := s[field]; !ok {
		field = fallback
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: field},
		Desc:   !strings.EqualFold(strings.TrimSpace(dir), "asc"),
	}
}

// paginate applies a 1-based page. Non-positive values return every row.
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page <= 0 || pageSize <= 0 {
		return query
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes the LIKE wildcards of s with a backslash
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// containsPattern matches s anywhere in a column, with its wildcards taken literally
func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}
