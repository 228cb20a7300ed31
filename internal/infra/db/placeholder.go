package db

import "strings"

// Rebind rewrites $n placeholders to ? when running on SQLite. Queries are
// written for PostgreSQL and bind arguments in order, so the numbers only
// need to be stripped. Quoted literals and identifiers are left alone.
func (d *DB) Rebind(query string) string {
	if d.driver != "sqlite" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))

	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '$' && i+1 < len(query) && isDigit(query[i+1]):
			b.WriteByte('?')
			for i+1 < len(query) && isDigit(query[i+1]) {
				i++
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (d *DB) Driver() string {
	return d.driver
}
