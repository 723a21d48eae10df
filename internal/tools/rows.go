package tools

import (
	"database/sql"
	"strings"
	"time"
)

// rowKeywords are the statement heads that produce a result set. Anything
// else runs as a write inside an explicitly committed transaction.
var rowKeywords = map[string]bool{
	"SELECT":  true,
	"WITH":    true,
	"SHOW":    true,
	"EXPLAIN": true,
	"VALUES":  true,
	"TABLE":   true,
}

// returnsRows reports whether the statement's leading keyword produces rows.
func returnsRows(query string) bool {
	fields := strings.Fields(stripLeadingComments(query))
	if len(fields) == 0 {
		return false
	}
	head := strings.TrimLeft(fields[0], "(")
	return rowKeywords[strings.ToUpper(head)]
}

// stripLeadingComments removes whitespace, line comments and block comments
// from the front of a statement so classification sees the first keyword.
func stripLeadingComments(query string) string {
	for {
		query = strings.TrimSpace(query)
		switch {
		case strings.HasPrefix(query, "--"):
			i := strings.IndexByte(query, '\n')
			if i < 0 {
				return ""
			}
			query = query[i+1:]
		case strings.HasPrefix(query, "/*"):
			i := strings.Index(query, "*/")
			if i < 0 {
				return ""
			}
			query = query[i+2:]
		default:
			return query
		}
	}
}

// queryEchoLimit caps how much of a submitted statement the envelopes echo
// back.
const queryEchoLimit = 200

// truncateQuery caps the echoed statement at queryEchoLimit characters.
func truncateQuery(query string) string {
	runes := []rune(query)
	if len(runes) <= queryEchoLimit {
		return query
	}
	return string(runes[:queryEchoLimit]) + "..."
}

// quoteIdent quotes a SQL identifier so names read out of the server's own
// catalogs round-trip regardless of case or punctuation.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// scanRows drains a result set into one map per row. Driver byte slices
// render as strings so the envelope marshals cleanly.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// nullString renders a nullable text column as a string or JSON null.
func nullString(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

// nullTime renders a nullable timestamp as RFC 3339 text or JSON null.
func nullTime(v sql.NullTime) any {
	if !v.Valid {
		return nil
	}
	return v.Time.Format(time.RFC3339)
}

// emptyAsNull renders an optional parameter the caller never set as JSON
// null.
func emptyAsNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}
