package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sima/internal/database"
)

var (
	productRowColumns = []string{"id", "name", "image_key", "created_at", "updated_at"}
	testTime          = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	testDate          = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(database.NewFromDB(db)), mock
}

func productRows(id int64, name, imageKey string) *sqlmock.Rows {
	return sqlmock.NewRows(productRowColumns).AddRow(id, name, imageKey, testTime, testTime)
}

func TestRepository_CreateProduct(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Green tea").
		WillReturnRows(productRows(1, "Green tea", ""))

	p, err := repo.CreateProduct(context.Background(), "Green tea")

	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Green tea", p.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetProduct_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	_, err := repo.GetProduct(context.Background(), 9)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRepository_RenameProduct(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("UPDATE products SET name").
		WithArgs("Black tea", int64(1)).
		WillReturnRows(productRows(1, "Black tea", ""))
	mock.ExpectQuery("UPDATE products SET name").
		WithArgs("Black tea", int64(2)).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	p, err := repo.RenameProduct(context.Background(), 1, "Black tea")
	require.NoError(t, err)
	assert.Equal(t, "Black tea", p.Name)

	_, err = repo.RenameProduct(context.Background(), 2, "Black tea")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRepository_DeleteProduct(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("DELETE FROM products WHERE id").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM products WHERE id").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteProduct(context.Background(), 1))
	assert.ErrorIs(t, repo.DeleteProduct(context.Background(), 1), ErrProductNotFound)
}

func TestRepository_RecordSale(t *testing.T) {
	repo, mock := newMockRepository(t)
	price := decimal.RequireFromString("2.50")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sale_lists").
		WithArgs(int64(1), "receipt-7", "Jane", "555-0101").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(int64(7), testDate))
	mock.ExpectQuery("INSERT INTO sales").
		WithArgs(int64(1), int64(7), 3, price).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(int64(70), testDate))
	mock.ExpectCommit()

	list, sale, err := repo.RecordSale(context.Background(), 1, CreateSaleRequest{
		Quantity:        3,
		SellingPrice:    price,
		Name:            "receipt-7",
		CustomerName:    "Jane",
		CustomerContact: "555-0101",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), list.ID)
	assert.Equal(t, int64(70), sale.ID)
	require.NotNil(t, sale.SaleListID)
	assert.Equal(t, int64(7), *sale.SaleListID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RecordSale_RollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sale_lists").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(int64(7), testDate))
	mock.ExpectQuery("INSERT INTO sales").WillReturnError(errors.New("check constraint"))
	mock.ExpectRollback()

	_, _, err := repo.RecordSale(context.Background(), 1, CreateSaleRequest{Quantity: 1, SellingPrice: decimal.NewFromInt(1)})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListSales(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{"id", "product_id", "sale_list_id", "quantity", "selling_price", "created_on"}).
		AddRow(int64(1), int64(1), int64(7), 2, "1.25", testDate).
		AddRow(int64(2), int64(1), nil, 1, "4.00", testDate)
	mock.ExpectQuery("FROM sales WHERE product_id").WithArgs(int64(1)).WillReturnRows(rows)

	sales, err := repo.ListSales(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.True(t, decimal.RequireFromString("1.25").Equal(sales[0].SellingPrice))
	require.NotNil(t, sales[0].SaleListID)
	assert.Nil(t, sales[1].SaleListID)
}

func TestRepository_DeleteSales(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("DELETE FROM sales WHERE product_id").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteSales(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRepository_ReceiveStock(t *testing.T) {
	repo, mock := newMockRepository(t)
	items := []StockItemRequest{
		{Quantity: 10, BuyingPrice: decimal.RequireFromString("1.10")},
		{Quantity: 5, BuyingPrice: decimal.RequireFromString("1.05")},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO stock_lists").
		WithArgs(int64(1), "march delivery").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(int64(3), testDate))
	for i, item := range items {
		mock.ExpectQuery("INSERT INTO stocks").
			WithArgs(int64(1), int64(3), item.Quantity, item.BuyingPrice).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(int64(30+i), testDate))
	}
	mock.ExpectCommit()

	list, stock, err := repo.ReceiveStock(context.Background(), 1, "march delivery", items)

	require.NoError(t, err)
	assert.Equal(t, int64(3), list.ID)
	require.Len(t, stock, 2)
	assert.Equal(t, int64(31), stock[1].ID)
	assert.Equal(t, int64(3), stock[1].StockListID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReceiveStock_AllOrNothing(t *testing.T) {
	repo, mock := newMockRepository(t)
	items := []StockItemRequest{
		{Quantity: 10, BuyingPrice: decimal.NewFromInt(1)},
		{Quantity: 5, BuyingPrice: decimal.NewFromInt(1)},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO stock_lists").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(int64(3), testDate))
	mock.ExpectQuery("INSERT INTO stocks").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(int64(30), testDate))
	mock.ExpectQuery("INSERT INTO stocks").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	list, stock, err := repo.ReceiveStock(context.Background(), 1, "", items)

	assert.Error(t, err)
	assert.Nil(t, list)
	assert.Nil(t, stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_StockLists(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM stock_lists WHERE product_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "created_on"}).
			AddRow(int64(3), int64(1), "march delivery", testDate))
	mock.ExpectExec("DELETE FROM stock_lists WHERE product_id").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	lists, err := repo.ListStockLists(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "march delivery", lists[0].Name)

	n, err := repo.DeleteStockLists(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
