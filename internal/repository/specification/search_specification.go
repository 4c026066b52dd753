package specification

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	OperatorAnd = "AND"
	OperatorOr  = "OR"
)

// SessionSearch matches sessions whose title and/or message text contain the
// terms. A "*" inside a term matches any run of characters. Matching is
// case-insensitive; message text is stored lower-cased in search_text.
type SessionSearch struct {
	Terms         []string
	Operator      string
	SearchTitles  bool
	SearchContent bool
	From          time.Time
	To            time.Time
}

func (s SessionSearch) Apply(db *gorm.DB) *gorm.DB {
	if !s.SearchTitles && !s.SearchContent {
		return db.Where("1 = 0")
	}

	dateSQL, dateArgs := s.messageDateClause()

	var clauses []string
	var args []interface{}
	for _, term := range s.Terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		pattern := LikePattern(term)

		var termClauses []string
		if s.SearchTitles {
			termClauses = append(termClauses, "LOWER(sessions.title) LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		if s.SearchContent {
			termClauses = append(termClauses,
				"EXISTS (SELECT 1 FROM messages m WHERE m.session_id = sessions.id AND m.search_text LIKE ? ESCAPE '\\'"+dateSQL+")")
			args = append(args, pattern)
			args = append(args, dateArgs...)
		}
		clauses = append(clauses, "("+strings.Join(termClauses, " OR ")+")")
	}

	op := " AND "
	if strings.EqualFold(s.Operator, OperatorOr) {
		op = " OR "
	}
	if len(clauses) > 0 {
		db = db.Where("("+strings.Join(clauses, op)+")", args...)
	}

	if s.From.IsZero() && s.To.IsZero() {
		return db
	}
	if s.SearchContent {
		return db.Where("EXISTS (SELECT 1 FROM messages m WHERE m.session_id = sessions.id"+dateSQL+")", dateArgs...)
	}
	return LastActiveBetween{From: s.From, To: s.To}.Apply(db)
}

func (s SessionSearch) messageDateClause() (string, []interface{}) {
	return messageWindow(s.From, s.To)
}

// messageWindow bounds m.created_at for a messages subquery aliased m.
func messageWindow(from, to time.Time) (string, []interface{}) {
	var sql string
	var args []interface{}
	if !from.IsZero() {
		sql += " AND m.created_at >= ?"
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		sql += " AND m.created_at <= ?"
		args = append(args, to.UTC())
	}
	return sql, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern lower-cases term and wraps it for a substring match. "*" becomes
// "%" and every other character, including "%" and "_", matches literally
// under ESCAPE '\'.
func LikePattern(term string) string {
	escaped := likeEscaper.Replace(strings.ToLower(term))
	return "%" + strings.ReplaceAll(escaped, "*", "%") + "%"
}
