package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-backend/internal/domains/voucher/model"
	"shop-backend/internal/infrastructure/database"
	pkgdb "shop-backend/pkg/database"
)

type postgresVoucherRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresVoucherRepository(pool *pgxpool.Pool) VoucherRepository {
	return &postgresVoucherRepository{pool: pool}
}

const voucherColumns = `id, code, type, unit, value, max_discount, min_order_price, remain_quantity, description, start_at, due_at, created_at`

func scanVoucher(row pgx.Row) (*model.Voucher, error) {
	var v model.Voucher
	err := row.Scan(&v.ID, &v.Code, &v.Type, &v.Unit, &v.Value, &v.MaxDiscount, &v.MinOrderPrice,
		&v.RemainQuantity, &v.Description, &v.StartAt, &v.DueAt, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVoucherNotFound
		}
		return nil, err
	}
	return &v, nil
}

func collectVouchers(rows pgx.Rows) ([]*model.Voucher, error) {
	defer rows.Close()
	vouchers := []*model.Voucher{}
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voucher: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

func (r *postgresVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error) {
	return scanVoucher(r.pool.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id))
}

func (r *postgresVoucherRepository) FindByCode(ctx context.Context, code string) (*model.Voucher, error) {
	return scanVoucher(r.pool.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE code = $1`, code))
}

func (r *postgresVoucherRepository) List(ctx context.Context, limit, offset int) ([]*model.Voucher, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count vouchers: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+voucherColumns+` FROM vouchers ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vouchers: %w", err)
	}
	vouchers, err := collectVouchers(rows)
	if err != nil {
		return nil, 0, err
	}
	return vouchers, total, nil
}

func (r *postgresVoucherRepository) ListAvailableForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*model.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers v
		WHERE v.due_at >= $2
		  AND v.remain_quantity > 0
		  AND (
		    (v.type = 'Personal' AND EXISTS (
		        SELECT 1 FROM voucher_users vu
		        WHERE vu.voucher_id = v.id AND vu.user_id = $1 AND vu.status = 'NotUsed'))
		    OR
		    (v.type = 'General' AND NOT EXISTS (
		        SELECT 1 FROM voucher_users vu
		        WHERE vu.voucher_id = v.id AND vu.user_id = $1 AND vu.status = 'Used'))
		  )
		ORDER BY v.due_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list available vouchers: %w", err)
	}
	return collectVouchers(rows)
}

func (r *postgresVoucherRepository) UserStatus(ctx context.Context, voucherID, userID uuid.UUID) (*model.VoucherUserStatus, error) {
	var status model.VoucherUserStatus
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM voucher_users WHERE voucher_id = $1 AND user_id = $2`, voucherID, userID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get voucher user status: %w", err)
	}
	return &status, nil
}

func (r *postgresVoucherRepository) ListUsers(ctx context.Context, voucherID uuid.UUID) ([]model.VoucherUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT voucher_id, user_id, status, used_at FROM voucher_users WHERE voucher_id = $1`, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list voucher users: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.VoucherUser])
}

func (r *postgresVoucherRepository) Create(ctx context.Context, v *model.Voucher) error {
	return insertVoucher(ctx, r.pool, v)
}

func insertVoucher(ctx context.Context, q pkgdb.Querier, v *model.Voucher) error {
	query := `
		INSERT INTO vouchers (code, type, unit, value, max_discount, min_order_price, remain_quantity, description, start_at, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query, v.Code, v.Type, v.Unit, v.Value, v.MaxDiscount, v.MinOrderPrice,
		v.RemainQuantity, v.Description, v.StartAt, v.DueAt).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrVoucherCodeExists
		}
		return fmt.Errorf("failed to create voucher: %w", err)
	}
	return nil
}

func (r *postgresVoucherRepository) CreatePersonal(ctx context.Context, v *model.Voucher, userIDs []uuid.UUID) error {
	return pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertVoucher(ctx, tx, v); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO voucher_users (voucher_id, user_id, status)
			SELECT $1, unnest($2::uuid[]), 'NotUsed'
			ON CONFLICT DO NOTHING
		`, v.ID, userIDs)
		if err != nil {
			if database.ErrorCode(err) == database.CodeForeignKeyViolation {
				return model.ErrUserNotExist
			}
			return fmt.Errorf("failed to allocate voucher users: %w", err)
		}
		return nil
	})
}

func (r *postgresVoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete voucher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVoucherNotFound
	}
	return nil
}
