package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"sima/internal/database"
)

var ErrProductNotFound = errors.New("product not found")

const productColumns = `id, name, image_key, created_at, updated_at`

// Repository handles all database operations for products and their
// sales and stock records
type Repository struct {
	db database.Service
}

// NewRepository creates a new products repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.ImageKey, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a new product
func (r *Repository) CreateProduct(ctx context.Context, name string) (*Product, error) {
	query := `INSERT INTO products (name) VALUES ($1) RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		slog.Error("Error creating product", "error", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return p, nil
}

// GetProduct retrieves a single product by ID
func (r *Repository) GetProduct(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// ListProducts returns all products ordered by id
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// RenameProduct sets a new name on the product
func (r *Repository) RenameProduct(ctx context.Context, id int64, name string) (*Product, error) {
	query := `UPDATE products SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, name, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return p, nil
}

// SetImageKey records the object key of the product image
func (r *Repository) SetImageKey(ctx context.Context, id int64, key string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET image_key = $1, updated_at = NOW() WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to set product image: %w", err)
	}
	return requireAffected(result, ErrProductNotFound)
}

// DeleteProduct removes a product. Sales, sale lists and stock go with it.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		slog.Error("Error deleting product", "product_id", id, "error", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireAffected(result, ErrProductNotFound)
}

func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
