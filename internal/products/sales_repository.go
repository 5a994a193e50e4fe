package products

import (
	"context"
	"fmt"

	"sima/internal/database"
)

// RecordSale writes the sale list and its sale row in one transaction
func (r *Repository) RecordSale(ctx context.Context, productID int64, req CreateSaleRequest) (*SaleList, *Sale, error) {
	list := &SaleList{
		ProductID:       productID,
		Name:            req.Name,
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
	}
	sale := &Sale{
		ProductID:    productID,
		Quantity:     req.Quantity,
		SellingPrice: req.SellingPrice,
	}

	err := r.db.WithTx(ctx, func(ctx context.Context, tx database.Querier) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO sale_lists (product_id, name, customer_name, customer_contact)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_on`,
			productID, list.Name, list.CustomerName, list.CustomerContact,
		).Scan(&list.ID, &list.CreatedOn)
		if err != nil {
			return fmt.Errorf("failed to create sale list: %w", err)
		}

		sale.SaleListID = &list.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO sales (product_id, sale_list_id, quantity, selling_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_on`,
			productID, list.ID, sale.Quantity, sale.SellingPrice,
		).Scan(&sale.ID, &sale.CreatedOn)
		if err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return list, sale, nil
}

// ListSales returns the sales of a product
func (r *Repository) ListSales(ctx context.Context, productID int64) ([]Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, sale_list_id, quantity, selling_price, created_on
		FROM sales WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	sales := []Sale{}
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.SaleListID, &s.Quantity, &s.SellingPrice, &s.CreatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}

	return sales, nil
}

// DeleteSales removes every sale of a product and returns how many went
func (r *Repository) DeleteSales(ctx context.Context, productID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sales: %w", err)
	}
	return result.RowsAffected()
}

// ListSaleLists returns the sale lists of a product
func (r *Repository) ListSaleLists(ctx context.Context, productID int64) ([]SaleList, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, customer_name, customer_contact, created_on
		FROM sale_lists WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lists: %w", err)
	}
	defer rows.Close()

	lists := []SaleList{}
	for rows.Next() {
		var l SaleList
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Name, &l.CustomerName, &l.CustomerContact, &l.CreatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan sale list: %w", err)
		}
		lists = append(lists, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sale lists: %w", err)
	}

	return lists, nil
}

// DeleteSaleLists removes the sale lists of a product. Their sales are kept
// and lose the list reference.
func (r *Repository) DeleteSaleLists(ctx context.Context, productID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sale_lists WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sale lists: %w", err)
	}
	return result.RowsAffected()
}
