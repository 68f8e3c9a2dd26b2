package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-backend/internal/domains/flashsale/model"
	pkgdb "shop-backend/pkg/database"
)

type postgresFlashSaleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFlashSaleRepository(pool *pgxpool.Pool) FlashSaleRepository {
	return &postgresFlashSaleRepository{pool: pool}
}

const flashSaleSelect = `
	SELECT f.id, f.product_id, f.flash_sale_price, f.flash_sale_quantity, f.previous_price,
	       f.previous_quantity, f.start_at, f.due_at, f.created_at,
	       p.id, p.name, p.code, p.slug, p.listed_price, p.sale_price, p.quantity_in_stock,
	       p.current_flash_sale_id
	FROM flash_sales f
	JOIN products p ON p.id = f.product_id
`

func scanFlashSale(row pgx.Row) (*model.FlashSale, error) {
	var f model.FlashSale
	var p model.ProductSummary
	err := row.Scan(&f.ID, &f.ProductID, &f.FlashSalePrice, &f.FlashSaleQuantity, &f.PreviousPrice,
		&f.PreviousQuantity, &f.StartAt, &f.DueAt, &f.CreatedAt,
		&p.ID, &p.Name, &p.Code, &p.Slug, &p.ListedPrice, &p.SalePrice, &p.QuantityInStock,
		&p.CurrentFlashSaleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrFlashSaleNotFound
		}
		return nil, err
	}
	f.Product = &p
	f.Active = p.CurrentFlashSaleID != nil && *p.CurrentFlashSaleID == f.ID
	return &f, nil
}

func collectFlashSales(rows pgx.Rows) ([]*model.FlashSale, error) {
	defer rows.Close()
	out := []*model.FlashSale{}
	for rows.Next() {
		f, err := scanFlashSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flash sale: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresFlashSaleRepository) Create(ctx context.Context, fs *model.FlashSale, check CreateCheck) error {
	return pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var p model.ProductSummary
		err := tx.QueryRow(ctx, `
			SELECT id, name, code, slug, listed_price, sale_price, quantity_in_stock, current_flash_sale_id
			FROM products
			WHERE id = $1 AND is_active = TRUE
			FOR UPDATE
		`, fs.ProductID).Scan(&p.ID, &p.Name, &p.Code, &p.Slug, &p.ListedPrice, &p.SalePrice,
			&p.QuantityInStock, &p.CurrentFlashSaleID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product: %w", err)
		}

		rows, err := tx.Query(ctx, flashSaleSelect+` WHERE f.product_id = $1`, fs.ProductID)
		if err != nil {
			return fmt.Errorf("failed to list product flash sales: %w", err)
		}
		existing, err := collectFlashSales(rows)
		if err != nil {
			return err
		}

		if err := check(&p, existing); err != nil {
			return err
		}

		fs.PreviousPrice = p.SalePrice
		fs.PreviousQuantity = p.QuantityInStock
		err = tx.QueryRow(ctx, `
			INSERT INTO flash_sales (product_id, flash_sale_price, flash_sale_quantity, previous_price,
				previous_quantity, start_at, due_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`, fs.ProductID, fs.FlashSalePrice, fs.FlashSaleQuantity, fs.PreviousPrice, fs.PreviousQuantity,
			fs.StartAt, fs.DueAt).Scan(&fs.ID, &fs.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert flash sale: %w", err)
		}

		fs.Product = &p
		return nil
	})
}

// =====================================================
// READ
// =====================================================

func (r *postgresFlashSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FlashSale, error) {
	f, err := scanFlashSale(r.pool.QueryRow(ctx, flashSaleSelect+` WHERE f.id = $1`, id))
	if err != nil {
		if errors.Is(err, model.ErrFlashSaleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get flash sale: %w", err)
	}
	return f, nil
}

func (r *postgresFlashSaleRepository) List(ctx context.Context, productID *uuid.UUID, limit, offset int) ([]*model.FlashSale, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM flash_sales WHERE ($1::uuid IS NULL OR product_id = $1)
	`, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count flash sales: %w", err)
	}

	rows, err := r.pool.Query(ctx, flashSaleSelect+`
		WHERE ($1::uuid IS NULL OR f.product_id = $1)
		ORDER BY f.start_at DESC
		LIMIT $2 OFFSET $3
	`, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flash sales: %w", err)
	}
	out, err := collectFlashSales(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *postgresFlashSaleRepository) ListActive(ctx context.Context) ([]*model.FlashSale, error) {
	rows, err := r.pool.Query(ctx, flashSaleSelect+`
		WHERE p.current_flash_sale_id = f.id AND p.is_active = TRUE
		ORDER BY f.due_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active flash sales: %w", err)
	}
	return collectFlashSales(rows)
}

// =====================================================
// TIMERS
// =====================================================

func (r *postgresFlashSaleRepository) Activate(ctx context.Context, id uuid.UUID) (bool, error) {
	activated := false
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		fs, err := scanFlashSale(tx.QueryRow(ctx, flashSaleSelect+` WHERE f.id = $1 FOR UPDATE OF f, p`, id))
		if err != nil {
			if errors.Is(err, model.ErrFlashSaleNotFound) {
				return nil
			}
			return fmt.Errorf("failed to lock flash sale: %w", err)
		}
		// product đang chạy flash sale (kể cả chính nó) -> no-op
		if fs.Product.CurrentFlashSaleID != nil {
			return nil
		}

		fs.ApplyActivation(fs.Product.SalePrice, fs.Product.QuantityInStock)

		if _, err := tx.Exec(ctx, `
			UPDATE flash_sales
			SET previous_price = $2, previous_quantity = $3, flash_sale_price = $4, flash_sale_quantity = $5
			WHERE id = $1
		`, fs.ID, fs.PreviousPrice, fs.PreviousQuantity, fs.FlashSalePrice, fs.FlashSaleQuantity); err != nil {
			return fmt.Errorf("failed to snapshot flash sale: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET sale_price = $2, quantity_in_stock = $3, current_flash_sale_id = $4, updated_at = NOW()
			WHERE id = $1
		`, fs.ProductID, fs.FlashSalePrice, fs.FlashSaleQuantity, fs.ID); err != nil {
			return fmt.Errorf("failed to apply flash sale: %w", err)
		}

		activated = true
		return nil
	})
	return activated, err
}

func (r *postgresFlashSaleRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		fs, err := scanFlashSale(tx.QueryRow(ctx, flashSaleSelect+` WHERE f.id = $1 FOR UPDATE OF f, p`, id))
		if err != nil {
			if errors.Is(err, model.ErrFlashSaleNotFound) {
				return nil
			}
			return fmt.Errorf("failed to lock flash sale: %w", err)
		}

		if fs.Active {
			if _, err := tx.Exec(ctx, `
				UPDATE products
				SET sale_price = $2,
				    quantity_in_stock = quantity_in_stock + $3,
				    current_flash_sale_id = NULL,
				    updated_at = NOW()
				WHERE id = $1 AND current_flash_sale_id = $4
			`, fs.ProductID, fs.PreviousPrice, fs.RestoreDelta(), fs.ID); err != nil {
				return fmt.Errorf("failed to restore product: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM flash_sales WHERE id = $1`, fs.ID); err != nil {
			return fmt.Errorf("failed to delete flash sale: %w", err)
		}

		deleted = true
		return nil
	})
	return deleted, err
}

func (r *postgresFlashSaleRepository) ListPendingActivations(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	return r.listIDs(ctx, `
		SELECT f.id
		FROM flash_sales f
		JOIN products p ON p.id = f.product_id
		WHERE f.start_at <= $1 AND f.due_at > $1 AND p.current_flash_sale_id IS NULL
		ORDER BY f.start_at
	`, now)
}

func (r *postgresFlashSaleRepository) ListExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	return r.listIDs(ctx, `SELECT id FROM flash_sales WHERE due_at <= $1 ORDER BY due_at`, now)
}

func (r *postgresFlashSaleRepository) listIDs(ctx context.Context, query string, now time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list flash sale ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan flash sale ids: %w", err)
	}
	return ids, nil
}
