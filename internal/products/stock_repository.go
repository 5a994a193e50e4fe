package products

import (
	"context"
	"fmt"

	"sima/internal/database"
)

// ReceiveStock writes one stock list and a stock row per item in one
// transaction. Either all rows are stored or none.
func (r *Repository) ReceiveStock(ctx context.Context, productID int64, name string, items []StockItemRequest) (*StockList, []Stock, error) {
	list := &StockList{ProductID: productID, Name: name}
	stock := make([]Stock, 0, len(items))

	err := r.db.WithTx(ctx, func(ctx context.Context, tx database.Querier) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO stock_lists (product_id, name)
			VALUES ($1, $2)
			RETURNING id, created_on`,
			productID, name,
		).Scan(&list.ID, &list.CreatedOn)
		if err != nil {
			return fmt.Errorf("failed to create stock list: %w", err)
		}

		for _, item := range items {
			s := Stock{
				ProductID:   productID,
				StockListID: list.ID,
				Quantity:    item.Quantity,
				BuyingPrice: item.BuyingPrice,
			}
			err := tx.QueryRowContext(ctx, `
				INSERT INTO stocks (product_id, stock_list_id, quantity, buying_price)
				VALUES ($1, $2, $3, $4)
				RETURNING id, created_on`,
				productID, list.ID, s.Quantity, s.BuyingPrice,
			).Scan(&s.ID, &s.CreatedOn)
			if err != nil {
				return fmt.Errorf("failed to create stock: %w", err)
			}
			stock = append(stock, s)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return list, stock, nil
}

// ListStock returns the stock rows of a product
func (r *Repository) ListStock(ctx context.Context, productID int64) ([]Stock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, stock_list_id, quantity, buying_price, created_on
		FROM stocks WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	defer rows.Close()

	stock := []Stock{}
	for rows.Next() {
		var s Stock
		if err := rows.Scan(&s.ID, &s.ProductID, &s.StockListID, &s.Quantity, &s.BuyingPrice, &s.CreatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stock = append(stock, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stock: %w", err)
	}

	return stock, nil
}

// ListStockLists returns the stock lists of a product
func (r *Repository) ListStockLists(ctx context.Context, productID int64) ([]StockList, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, created_on
		FROM stock_lists WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock lists: %w", err)
	}
	defer rows.Close()

	lists := []StockList{}
	for rows.Next() {
		var l StockList
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Name, &l.CreatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan stock list: %w", err)
		}
		lists = append(lists, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stock lists: %w", err)
	}

	return lists, nil
}

// DeleteStockLists removes the stock lists of a product together with their
// stock rows
func (r *Repository) DeleteStockLists(ctx context.Context, productID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stock_lists WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stock lists: %w", err)
	}
	return result.RowsAffected()
}
