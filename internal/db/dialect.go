package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the placeholder style and id-returning strategy of a driver.
// Queries in this module are written with `?` placeholders.
type Dialect int

const (
	MySQL Dialect = iota
	Postgres
)

func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	}
	return MySQL, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

func (d Dialect) DriverName() string {
	if d == Postgres {
		return "postgres"
	}
	return "mysql"
}

func (d Dialect) String() string { return d.DriverName() }

// Rebind rewrites `?` placeholders to `$n` for postgres. Question marks
// inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
