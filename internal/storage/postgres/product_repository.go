package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type productRepository struct {
	q querier
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{q: store.DB()}
}

const productColumns = `id, name, title, price_minor, stock, version, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (
			id, name, title, price_minor, stock, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		product.ID, product.Name, product.Title, product.PriceMinor, product.Stock,
		product.Version, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	return r.getBy(ctx, "id", id)
}

func (r *productRepository) GetByName(ctx context.Context, name string) (domain.Product, error) {
	return r.getBy(ctx, "name", name)
}

func (r *productRepository) getBy(ctx context.Context, column, value string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var product domain.Product
	err := r.q.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE `+column+` = $1
	`, value).Scan(
		&product.ID, &product.Name, &product.Title, &product.PriceMinor, &product.Stock,
		&product.Version, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context, page domain.Page) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY name ASC
	`
	args := []any{}
	query, args = appendPage(query, args, page)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Title, &product.PriceMinor, &product.Stock,
			&product.Version, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func (r *productRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.update(ctx, id, `
		UPDATE products
		SET name = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
	`, name)
}

func (r *productRepository) UpdateTitle(ctx context.Context, id, title string) error {
	return r.update(ctx, id, `
		UPDATE products
		SET title = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
	`, title)
}

func (r *productRepository) UpdatePrice(ctx context.Context, id string, priceMinor int64) error {
	return r.update(ctx, id, `
		UPDATE products
		SET price_minor = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
	`, priceMinor)
}

func (r *productRepository) UpdateStock(ctx context.Context, id string, stock int64) error {
	return r.update(ctx, id, `
		UPDATE products
		SET stock = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
	`, stock)
}

// DecrementStock выполняет атомарное условное списание: конкурентные
// checkout-вызовы сериализуются блокировкой строки товара, списать сток
// в минус невозможно.
func (r *productRepository) DecrementStock(ctx context.Context, id string, qty int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
		  AND stock >= $2
	`, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	// Либо товара нет, либо остатка не хватает.
	if _, err := r.getBy(ctx, "id", id); err != nil {
		return false, err
	}
	return false, nil
}

// DrainStock обнуляет остаток под блокировкой строки и возвращает списанное количество.
func (r *productRepository) DrainStock(ctx context.Context, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var drained int64
	err := r.q.QueryRowContext(ctx, `
		WITH cur AS (
			SELECT id, stock FROM products WHERE id = $1 FOR UPDATE
		)
		UPDATE products p
		SET stock = 0, version = p.version + 1, updated_at = NOW()
		FROM cur
		WHERE p.id = cur.id
		RETURNING cur.stock
	`, id).Scan(&drained)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrProductNotFound
		}
		return 0, fmt.Errorf("drain stock: %w", err)
	}
	return drained, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) update(ctx context.Context, id, query string, arg any) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, query, id, arg)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
