package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-backend/internal/domains/product/model"
)

type postgresImportRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresImportRepository(pool *pgxpool.Pool) ImportRepository {
	return &postgresImportRepository{pool: pool}
}

const importColumns = `id, file_name, object_key, sheet, status, total_rows, success_rows, failed_rows, errors, result_key, created_by, created_at, completed_at`

func scanImport(row pgx.Row) (*model.ProductImport, error) {
	var (
		imp       model.ProductImport
		errorsRaw []byte
	)
	err := row.Scan(&imp.ID, &imp.FileName, &imp.ObjectKey, &imp.Sheet, &imp.Status,
		&imp.TotalRows, &imp.SuccessRows, &imp.FailedRows, &errorsRaw, &imp.ResultKey,
		&imp.CreatedBy, &imp.CreatedAt, &imp.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrImportNotFound
		}
		return nil, err
	}
	if len(errorsRaw) > 0 {
		if err := json.Unmarshal(errorsRaw, &imp.Errors); err != nil {
			return nil, fmt.Errorf("failed to decode import errors: %w", err)
		}
	}
	return &imp, nil
}

func (r *postgresImportRepository) Create(ctx context.Context, imp *model.ProductImport) error {
	query := `
		INSERT INTO product_imports (file_name, object_key, sheet, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query, imp.FileName, imp.ObjectKey, imp.Sheet, imp.Status, imp.CreatedBy).
		Scan(&imp.ID, &imp.CreatedAt); err != nil {
		return fmt.Errorf("failed to create product import: %w", err)
	}
	return nil
}

func (r *postgresImportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductImport, error) {
	return scanImport(r.pool.QueryRow(ctx, `SELECT `+importColumns+` FROM product_imports WHERE id = $1`, id))
}

func (r *postgresImportRepository) List(ctx context.Context, limit, offset int) ([]*model.ProductImport, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM product_imports`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count imports: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+importColumns+` FROM product_imports ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	imports := make([]*model.ProductImport, 0, limit)
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, 0, err
		}
		imports = append(imports, imp)
	}
	return imports, total, rows.Err()
}

func (r *postgresImportRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE product_imports SET status = $2 WHERE id = $1`, id, model.ImportStatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to mark import processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrImportNotFound
	}
	return nil
}

func (r *postgresImportRepository) Complete(ctx context.Context, imp *model.ProductImport) error {
	errorsJSON, err := json.Marshal(imp.Errors)
	if err != nil {
		return fmt.Errorf("failed to encode import errors: %w", err)
	}
	query := `
		UPDATE product_imports
		SET status = $2, total_rows = $3, success_rows = $4, failed_rows = $5,
		    errors = $6, result_key = $7, completed_at = NOW()
		WHERE id = $1
		RETURNING completed_at
	`
	return r.pool.QueryRow(ctx, query, imp.ID, imp.Status, imp.TotalRows, imp.SuccessRows, imp.FailedRows,
		errorsJSON, imp.ResultKey).Scan(&imp.CompletedAt)
}
