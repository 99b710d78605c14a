package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordermesa/preorder-backend/pkg/db/models"
	"github.com/ordermesa/preorder-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  order_type TEXT NOT NULL DEFAULT 'dine_in',
  payment_method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'paid',
  reference_code TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  menu_item_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS order_items`).Error)
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS orders`).Error)
	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, customerID uuid.UUID, createdAt time.Time, reference string) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		RestaurantID:  uuid.New(),
		OrderType:     enums.OrderTypeDineIn,
		PaymentMethod: enums.PaymentMethodKBZPay,
		Status:        enums.OrderStatusPaid,
		ReferenceCode: reference,
		TotalAmount:   decimal.RequireFromString("17000"),
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		Items: []models.OrderItem{
			{
				ID:         uuid.New(),
				MenuItemID: uuid.New(),
				Name:       "Pad Thai",
				UnitPrice:  decimal.RequireFromString("8500"),
				Quantity:   2,
			},
		},
	}
	require.NoError(t, NewRepository(db).Create(context.Background(), order))
	return order
}

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	customerID := uuid.New()

	created := seedOrder(t, db, customerID, time.Now().UTC(), "ORDER-1748000000000-AB12CD")

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, customerID, found.CustomerID)
	assert.Equal(t, "ORDER-1748000000000-AB12CD", found.ReferenceCode)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Pad Thai", found.Items[0].Name)
	assert.True(t, found.Items[0].UnitPrice.Equal(decimal.RequireFromString("8500")))
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByCustomerPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	customerID := uuid.New()

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	oldest := seedOrder(t, db, customerID, base, "ORDER-1-A")
	middle := seedOrder(t, db, customerID, base.Add(time.Hour), "ORDER-2-B")
	newest := seedOrder(t, db, customerID, base.Add(2*time.Hour), "ORDER-3-C")
	seedOrder(t, db, uuid.New(), base.Add(3*time.Hour), "ORDER-4-D")

	page, cursor, err := repo.ListByCustomer(context.Background(), listOrdersParams{
		CustomerID: customerID,
		Limit:      2,
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, newest.ID, page[0].ID)
	assert.Equal(t, middle.ID, page[1].ID)
	require.NotNil(t, cursor)

	rest, cursor, err := repo.ListByCustomer(context.Background(), listOrdersParams{
		CustomerID: customerID,
		Limit:      2,
		Cursor:     cursor,
	})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, oldest.ID, rest[0].ID)
	assert.Nil(t, cursor)
}
