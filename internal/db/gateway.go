package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02T15:04:05"
)

// Gateway runs parameterized queries against the store and returns rows as
// column-keyed maps. Every call is bounded by the configured query timeout.
type Gateway struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
	log     *zap.Logger
}

func NewGateway(conn *sql.DB, dialect Dialect, timeout time.Duration, log *zap.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{db: conn, dialect: dialect, timeout: timeout, log: log}
}

func (g *Gateway) Dialect() Dialect { return g.dialect }

// FetchOne returns the first row, or nil when the query matched nothing.
func (g *Gateway) FetchOne(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := g.query(ctx, "fetch_one", query, args, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FetchAll returns every matched row. The slice is never nil.
func (g *Gateway) FetchAll(ctx context.Context, query string, args ...any) ([]Row, error) {
	return g.query(ctx, "fetch_all", query, args, 0)
}

// Exec runs a statement and reports the affected row count.
func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.db.ExecContext(ctx, g.dialect.Rebind(query), args...)
	if err != nil {
		return 0, g.fail("exec", query, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, g.fail("exec", query, err)
	}
	return n, nil
}

// Insert runs an INSERT and returns the generated id.
func (g *Gateway) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.dialect == Postgres {
		var id int64
		q := g.dialect.Rebind(query) + " RETURNING id"
		if err := g.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
			return 0, g.fail("insert", query, err)
		}
		return id, nil
	}

	res, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, g.fail("insert", query, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, g.fail("insert", query, err)
	}
	return id, nil
}

// Ping checks that the store answers within the query timeout.
func (g *Gateway) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	if err := g.db.PingContext(ctx); err != nil {
		return g.fail("ping", "", err)
	}
	return nil
}

func (g *Gateway) query(ctx context.Context, op, query string, args []any, limit int) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	rows, err := g.db.QueryContext(ctx, g.dialect.Rebind(query), args...)
	if err != nil {
		return nil, g.fail(op, query, err)
	}
	defer rows.Close()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, g.fail(op, query, err)
	}

	out := []Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, g.fail(op, query, err)
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c.Name()] = normalize(c.DatabaseTypeName(), vals[i])
		}
		out = append(out, row)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, g.fail(op, query, err)
	}
	return out, nil
}

func (g *Gateway) fail(op, query string, err error) error {
	unavailable := isUnavailable(err)
	g.log.Error("database call failed",
		zap.String("op", op),
		zap.String("query", compact(query)),
		zap.Bool("unavailable", unavailable),
		zap.Error(err),
	)
	return &appErrors.StoreError{Op: op, Unavailable: unavailable, Err: err}
}

func normalize(dbType string, v any) any {
	switch t := v.(type) {
	case time.Time:
		if strings.EqualFold(dbType, "DATE") {
			return t.Format(dateLayout)
		}
		return t.Format(datetimeLayout)
	case []byte:
		return fromText(dbType, string(t))
	case string:
		return fromText(dbType, t)
	}
	return v
}

func fromText(dbType, s string) any {
	switch strings.ToUpper(dbType) {
	case "DECIMAL", "NUMERIC":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1040, 1045, 1053, 2002, 2003, 2006, 2013:
			return true
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		class := pqErr.Code.Class()
		return class == "08" || class == "57" || class == "53"
	}
	return false
}

func compact(q string) string {
	return strings.Join(strings.Fields(q), " ")
}
