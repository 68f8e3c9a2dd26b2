package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"shop-backend/internal/domains/product/model"
	"shop-backend/internal/infrastructure/database"
)

type postgresProductRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &postgresProductRepository{pool: pool}
}

const productColumns = `
	id, code, name, slug, description, thumbnail, images,
	listed_price, sale_price, quantity_in_stock, sold,
	current_flash_sale_id, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Slug, &p.Description, &p.Thumbnail, &p.Images,
		&p.ListedPrice, &p.SalePrice, &p.QuantityInStock, &p.Sold,
		&p.CurrentFlashSaleID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

func (r *postgresProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (code, name, slug, description, thumbnail, images, listed_price, sale_price, quantity_in_stock, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, sold, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.Code, p.Name, p.Slug, p.Description, p.Thumbnail, p.Images,
		p.ListedPrice, p.SalePrice, p.QuantityInStock, p.IsActive,
	).Scan(&p.ID, &p.Sold, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrProductExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *postgresProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *postgresProductRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
}

func (r *postgresProductRepository) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code))
}

func (r *postgresProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	if len(ids) == 0 {
		return []*model.Product{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY code`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows, len(ids))
}

// ============================================
// LIST (keyword + sort + paginate)
// ============================================

func (r *postgresProductRepository) List(ctx context.Context, req model.ListProductsRequest) ([]*model.Product, int64, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if !req.IncludeInactive {
		conditions = append(conditions, "is_active = true")
	}
	if kw := strings.TrimSpace(req.Keyword); kw != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+kw+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// SortBy/Order đã được Normalize whitelist
	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, req.SortBy, req.Order, argIndex, argIndex+1)
	args = append(args, req.Limit, req.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows, req.Limit)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func collectProducts(rows pgx.Rows, capacity int) ([]*model.Product, error) {
	products := make([]*model.Product, 0, capacity)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return products, nil
}

func (r *postgresProductRepository) Update(ctx context.Context, p *model.Product, salePrice *decimal.Decimal) error {
	// flash sale có thể activate giữa lúc đọc và ghi: giữ nguyên sale_price trong DB
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, listed_price = $5,
		    sale_price = COALESCE($6::numeric, sale_price),
		    is_active = $7, updated_at = NOW()
		WHERE id = $1
		  AND ($6::numeric IS NULL OR current_flash_sale_id IS NULL)
		RETURNING sale_price, current_flash_sale_id, updated_at
	`
	err := r.pool.QueryRow(ctx, query, p.ID, p.Name, p.Slug, p.Description, p.ListedPrice, salePrice, p.IsActive).
		Scan(&p.SalePrice, &p.CurrentFlashSaleID, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if salePrice != nil {
				var exists bool
				if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, p.ID).Scan(&exists); err == nil && exists {
					return model.ErrProductInFlashSale
				}
			}
			return model.ErrProductNotFound
		}
		if database.IsUniqueViolation(err) {
			return model.ErrProductExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *postgresProductRepository) UpdateImages(ctx context.Context, id uuid.UUID, thumbnail string, images []string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET thumbnail = $2, images = $3, updated_at = NOW() WHERE id = $1`,
		id, thumbnail, images,
	)
	if err != nil {
		return fmt.Errorf("failed to update product images: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *postgresProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *postgresProductRepository) IncrementStockByCode(ctx context.Context, code string, quantity int) (*model.Product, error) {
	query := `
		UPDATE products
		SET quantity_in_stock = quantity_in_stock + $2, updated_at = NOW()
		WHERE code = $1
		RETURNING ` + productColumns
	return scanProduct(r.pool.QueryRow(ctx, query, code, quantity))
}
