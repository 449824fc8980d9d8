package db

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
)

func setupGateway(t *testing.T, d Dialect) (*Gateway, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewGateway(conn, d, time.Second, zap.NewNop()), mock
}

func TestFetchOne_NormalizesValues(t *testing.T) {
	gw, mock := setupGateway(t, MySQL)

	when := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("id").OfType("INT", int64(0)),
		sqlmock.NewColumn("name").OfType("VARCHAR", ""),
		sqlmock.NewColumn("price").OfType("DECIMAL", []byte{}),
		sqlmock.NewColumn("warranty_end_date").OfType("DATE", time.Time{}),
		sqlmock.NewColumn("created_at").OfType("DATETIME", time.Time{}),
		sqlmock.NewColumn("description").OfType("TEXT", ""),
	).AddRow(int64(7), []byte("Water Purifier"), []byte("12999.50"), when, when, nil)

	mock.ExpectQuery("SELECT * FROM products WHERE id = ?").WithArgs(7).WillReturnRows(rows)

	row, err := gw.FetchOne(context.Background(), "SELECT * FROM products WHERE id = ?", 7)
	require.NoError(t, err)
	require.NotNil(t, row)

	assert.Equal(t, int64(7), row.Int64("id"))
	assert.Equal(t, "Water Purifier", row["name"])
	assert.Equal(t, 12999.50, row["price"])
	assert.Equal(t, "2024-03-09", row["warranty_end_date"])
	assert.Equal(t, "2024-03-09T14:05:07", row["created_at"])
	assert.False(t, row.Has("description"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchOne_NoRowsIsNotAnError(t *testing.T) {
	gw, mock := setupGateway(t, MySQL)

	mock.ExpectQuery("SELECT id FROM customers WHERE phone = ?").
		WithArgs("9000000001").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, err := gw.FetchOne(context.Background(), "SELECT id FROM customers WHERE phone = ?", "9000000001")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestFetchAll_EmptyIsNonNil(t *testing.T) {
	gw, mock := setupGateway(t, MySQL)

	mock.ExpectQuery("SELECT * FROM service_centers").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	rows, err := gw.FetchAll(context.Background(), "SELECT * FROM service_centers")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

func TestFetchAll_UnreachableStore(t *testing.T) {
	gw, mock := setupGateway(t, MySQL)

	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	mock.ExpectQuery("SELECT * FROM notifications").WillReturnError(refused)

	rows, err := gw.FetchAll(context.Background(), "SELECT * FROM notifications")
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.True(t, appErrors.IsUnavailable(err))

	var se *appErrors.StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "fetch_all", se.Op)
}

func TestFetchAll_QueryFailureIsNotUnavailable(t *testing.T) {
	gw, mock := setupGateway(t, MySQL)

	mock.ExpectQuery("SELECT nope FROM products").WillReturnError(errors.New("unknown column 'nope'"))

	_, err := gw.FetchAll(context.Background(), "SELECT nope FROM products")
	require.Error(t, err)
	assert.False(t, appErrors.IsUnavailable(err))
}

func TestExec_RowsAffected(t *testing.T) {
	gw, mock := setupGateway(t, MySQL)

	mock.ExpectExec("UPDATE notifications SET is_read = TRUE WHERE id = ? AND customer_id = ?").
		WithArgs(3, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := gw.Exec(context.Background(),
		"UPDATE notifications SET is_read = TRUE WHERE id = ? AND customer_id = ?", 3, int64(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInsert_MySQLUsesLastInsertID(t *testing.T) {
	gw, mock := setupGateway(t, MySQL)

	mock.ExpectExec("INSERT INTO enquiries (customer_id, message) VALUES (?, ?)").
		WithArgs(int64(1), "hello").
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := gw.Insert(context.Background(), "INSERT INTO enquiries (customer_id, message) VALUES (?, ?)", int64(1), "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestInsert_PostgresReturnsID(t *testing.T) {
	gw, mock := setupGateway(t, Postgres)

	mock.ExpectQuery("INSERT INTO enquiries (customer_id, message) VALUES ($1, $2) RETURNING id").
		WithArgs(int64(1), "hello").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(43)))

	id, err := gw.Insert(context.Background(), "INSERT INTO enquiries (customer_id, message) VALUES (?, ?)", int64(1), "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(43), id)
}

func TestRebind(t *testing.T) {
	assert.Equal(t, "SELECT 1 WHERE a = ? AND b = ?", MySQL.Rebind("SELECT 1 WHERE a = ? AND b = ?"))
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = '?' AND c = $2",
		Postgres.Rebind("SELECT 1 WHERE a = ? AND b = '?' AND c = ?"))
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("")
	require.NoError(t, err)
	assert.Equal(t, MySQL, d)

	d, err = DialectFor("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	_, err = DialectFor("sqlite")
	assert.Error(t, err)
}

func TestRowAccessors(t *testing.T) {
	r := Row{"flag": int64(1), "off": int64(0), "b": true, "n": "12", "name": "x", "nil": nil}

	assert.True(t, r.Bool("flag"))
	assert.False(t, r.Bool("off"))
	assert.True(t, r.Bool("b"))
	assert.Equal(t, int64(12), r.Int64("n"))
	assert.Equal(t, "x", r.String("name"))
	assert.Equal(t, "", r.String("missing"))
	assert.False(t, r.Has("nil"))

	trimmed := r.Without("name")
	assert.NotContains(t, trimmed, "name")
	assert.Contains(t, r, "name")
}
