package repositories

import (
	"strings"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const maxPageSize = 200

// orderClause renders an allow-listed, quoted ORDER BY term. Unknown columns
// fall back to def.
func orderClause(table string, allowed map[string]bool, order *entities.Order, def string) string {
	if order == nil || !allowed[order.Column] {
		return def
	}
	clause := table + "." + pq.QuoteIdentifier(order.Column)
	if order.Descending {
		return clause + " DESC"
	}
	return clause + " ASC"
}

func paginate(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		if limit > maxPageSize {
			limit = maxPageSize
		}
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps search for a substring match. Wildcards in search are
// escaped, so queries using it must declare ESCAPE '\'.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

func strPtr(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := *v
	return &s
}
