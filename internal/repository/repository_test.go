package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
)

func setupMockDB(t *testing.T) (*db.Gateway, sqlmock.Sqlmock) {
	return setupMockDBFor(t, db.MySQL)
}

func setupMockDBFor(t *testing.T, d db.Dialect) (*db.Gateway, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})
	return db.NewGateway(conn, d, time.Second, zap.NewNop()), mock
}

func TestCustomerRepository_GetMobileByPhone(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &CustomerRepository{DB: gw}

	rows := sqlmock.NewRows([]string{"id", "phone", "individual_name", "contact_person", "has_mobile_access", "password_hash"}).
		AddRow(int64(5), "9000000001", nil, "Asha", int64(1), "$2a$10$abc")
	mock.ExpectQuery(`SELECT \* FROM customers WHERE phone = \? AND has_mobile_access = TRUE`).
		WithArgs("9000000001").
		WillReturnRows(rows)

	c, err := repo.GetMobileByPhone(context.Background(), "9000000001")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, int64(5), c.ID)
	assert.True(t, c.HasMobileAccess)
	assert.Equal(t, "Asha", c.DisplayName())
}

func TestCustomerRepository_GetByPhone_NotFound(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &CustomerRepository{DB: gw}

	mock.ExpectQuery(`SELECT \* FROM customers WHERE phone = \?`).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, err := repo.GetByPhone(context.Background(), "1")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCustomerRepository_NextCustomerCode(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &CustomerRepository{DB: gw}

	// MAX over every numeric suffix, however many imported codes exist.
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(CAST\(SUBSTRING\(customer_code, 5\) AS UNSIGNED\)\), 0\) AS max_code\s+FROM customers WHERE customer_code REGEXP '\^CUST\[0-9\]\+\$'`).
		WillReturnRows(sqlmock.NewRows([]string{"max_code"}).AddRow(int64(150)))

	code, err := repo.NextCustomerCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CUST151", code)
}

func TestCustomerRepository_NextCustomerCode_Postgres(t *testing.T) {
	gw, mock := setupMockDBFor(t, db.Postgres)
	repo := &CustomerRepository{DB: gw}

	mock.ExpectQuery(`AS BIGINT\)\), 0\) AS max_code\s+FROM customers WHERE customer_code ~ '\^CUST\[0-9\]\+\$'`).
		WillReturnRows(sqlmock.NewRows([]string{"max_code"}).AddRow(int64(999)))

	code, err := repo.NextCustomerCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CUST1000", code)
}

func TestCustomerRepository_NextCustomerCode_Empty(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &CustomerRepository{DB: gw}

	mock.ExpectQuery(`AS max_code`).
		WillReturnRows(sqlmock.NewRows([]string{"max_code"}).AddRow(int64(0)))

	code, err := repo.NextCustomerCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CUST001", code)
}

func TestCustomerRepository_Create(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &CustomerRepository{DB: gw}

	mock.ExpectExec(`INSERT INTO customers`).
		WithArgs("CUST001", "b2c", "A Tester", nil, "A Tester", nil, "9000000001", "", "", "", "",
			"hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := repo.Create(context.Background(), model.NewCustomer{
		CustomerCode:   "CUST001",
		CustomerType:   "b2c",
		IndividualName: "A Tester",
		ContactPerson:  "A Tester",
		Phone:          "9000000001",
		PasswordHash:   "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestCustomerRepository_UpdateProfile_OnlyWhitelisted(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &CustomerRepository{DB: gw}

	mock.ExpectExec(`UPDATE customers SET email = \?, city = \?, updated_at = \? WHERE id = \?`).
		WithArgs("a@b.c", "Pune", sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProfile(context.Background(), 3, map[string]string{
		"city":          "Pune",
		"email":         "a@b.c",
		"password_hash": "sneaky",
	})
	require.NoError(t, err)
}

func TestCustomerRepository_HasValidResetToken(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &CustomerRepository{DB: gw}

	now := time.Now()
	mock.ExpectQuery(`SELECT token FROM password_reset_tokens WHERE user_id = \? AND expires_at > \?`).
		WithArgs(int64(4), now).
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow("RST1"))

	ok, err := repo.HasValidResetToken(context.Background(), 4, now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNotificationRepository_MarkRead_AlreadyRead(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &NotificationRepository{DB: gw}

	mock.ExpectExec(`UPDATE notifications SET is_read = TRUE`).
		WithArgs(int64(9), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id FROM notifications WHERE id = \? AND customer_id = \?`).
		WithArgs(int64(9), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	found, err := repo.MarkRead(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestNotificationRepository_MarkRead_NotOwned(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &NotificationRepository{DB: gw}

	mock.ExpectExec(`UPDATE notifications SET is_read = TRUE`).
		WithArgs(int64(9), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id FROM notifications`).
		WithArgs(int64(9), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	found, err := repo.MarkRead(context.Background(), 2, 9)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestServiceTicketRepository_StatusFilterInSQL(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &ServiceTicketRepository{DB: gw}

	mock.ExpectQuery(`AND LOWER\(st.status\) = LOWER\(\?\) ORDER BY st.created_at DESC`).
		WithArgs(int64(1), "completed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(int64(2), "COMPLETED"))

	rows, err := repo.ListForCustomer(context.Background(), 1, "completed", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "COMPLETED", rows[0]["status"])
}

func TestServiceTicketRepository_CountsWithNoTickets(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &ServiceTicketRepository{DB: gw}

	mock.ExpectQuery(`SUM\(CASE WHEN status IN`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"active", "completed"}).AddRow(nil, nil))

	active, completed, err := repo.Counts(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, active)
	assert.Zero(t, completed)
}

func TestOrderRepository_ListForCustomer_GroupsItems(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &OrderRepository{DB: gw}

	mock.ExpectQuery(`SELECT s.\* FROM sales s WHERE s.customer_id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_number"}).
			AddRow(int64(10), "INV-10").
			AddRow(int64(11), "INV-11"))
	mock.ExpectQuery(`FROM sale_items si`).
		WithArgs(int64(10), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sale_id", "product_id", "quantity", "product_name"}).
			AddRow(int64(1), int64(10), int64(3), int64(1), "Purifier").
			AddRow(int64(2), int64(10), int64(4), int64(2), "Filter"))

	orders, err := repo.ListForCustomer(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "Purifier,Filter", orders[0]["products"])
	assert.Len(t, orders[0]["items"], 2)
	assert.Nil(t, orders[1]["products"])
	assert.Len(t, orders[1]["items"], 0)
}

func TestOrderRepository_SalesHistory_NameWithQuantity(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &OrderRepository{DB: gw}

	mock.ExpectQuery(`SELECT s.\* FROM sales s`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(`FROM sale_items si`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sale_id", "quantity", "product_name"}).
			AddRow(int64(1), int64(10), int64(2), "Filter"))

	sales, err := repo.SalesHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Filter (2)", sales[0]["products"])
	assert.NotContains(t, sales[0], "items")
}

func TestOrderRepository_GetForCustomer_Absent(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &OrderRepository{DB: gw}

	mock.ExpectQuery(`SELECT s.\* FROM sales s WHERE s.id = \? AND s.customer_id = \?`).
		WithArgs(int64(99), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, err := repo.GetForCustomer(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestProductRepository_CatalogFilters(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &ProductRepository{DB: gw}

	mock.ExpectQuery(`WHERE p.is_active = TRUE AND pc.name = \? AND \(p.name LIKE \? OR p.description LIKE \?\) ORDER BY p.name`).
		WithArgs("Purifiers", "%ro%", "%ro%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "RO Max"))

	rows, err := repo.Catalog(context.Background(), "Purifiers", "ro")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPreferenceRepository_DefaultsWithoutRow(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &PreferenceRepository{DB: gw}

	mock.ExpectQuery(`FROM customer_preferences`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"push_notifications", "sms_notifications", "email_notifications"}))

	prefs, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Preferences{PushNotifications: true, SMSNotifications: true, EmailNotifications: true}, prefs)
}

func TestPreferenceRepository_StoredValues(t *testing.T) {
	gw, mock := setupMockDB(t)
	repo := &PreferenceRepository{DB: gw}

	mock.ExpectQuery(`FROM customer_preferences`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"push_notifications", "sms_notifications", "email_notifications"}).
			AddRow(int64(0), int64(1), nil))

	prefs, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, prefs.PushNotifications)
	assert.True(t, prefs.SMSNotifications)
	assert.True(t, prefs.EmailNotifications)
}
