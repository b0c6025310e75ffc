package persistence

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortable whitelists the columns a list may be ordered by. Anything else
// falls back to the default column, so caller input never reaches the SQL.
type sortable struct {
	columns  map[string]struct{}
	fallback string
}

func newSortable(fallback string, columns ...string) sortable {
	s := sortable{columns: make(map[string]struct{}, len(columns)+1), fallback: fallback}
	s.columns[fallback] = struct{}{}
	for _, c := range columns {
		s.columns[c] = struct{}{}
	}
	return s
}

var (
	leadSort = newSortable("created_at", "id", "updated_at", "name", "email", "phone", "stage_id")
	userSort = newSortable("created_at", "id", "updated_at", "username", "name", "email", "last_login_at")
)

func (s sortable) column(field string) string {
	field = strings.ToLower(strings.TrimSpace(field))
	if _, ok := s.columns[field]; ok {
		return field
	}
	return s.fallback
}

// descending is the default; only an explicit "asc" flips it.
func descending(dir string) bool {
	return !strings.EqualFold(strings.TrimSpace(dir), "asc")
}

// order sorts by the requested column, then by id in the same direction so
// pages stay stable when the column has ties.
func (s sortable) order(query *gorm.DB, field, dir string) *gorm.DB {
	desc := descending(dir)
	col := s.column(field)
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc})
	if col != "id" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern that works on postgres and sqlite
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
