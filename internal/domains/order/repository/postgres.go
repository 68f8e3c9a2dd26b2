package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-backend/internal/domains/order/model"
	paymentModel "shop-backend/internal/domains/payment/model"
	pkgdb "shop-backend/pkg/database"
)

type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{pool: pool}
}

func (r *postgresOrderRepository) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txOrderRepository{q: tx})
	})
}

// =====================================================
// SCAN HELPERS
// =====================================================

const orderColumns = `o.id, o.code, o.user_id, o.voucher_id, o.voucher_code, o.receiver_name, o.order_phone,
	o.order_address, o.order_address_type, o.reminder, o.status, o.order_total_price, o.order_discount,
	o.order_final_price, o.cancel_reason, o.created_at, o.updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Code, &o.UserID, &o.VoucherID, &o.VoucherCode, &o.ReceiverName, &o.OrderPhone,
		&o.OrderAddress, &o.OrderAddressType, &o.Reminder, &o.Status, &o.OrderTotalPrice, &o.OrderDiscount,
		&o.OrderFinalPrice, &o.CancelReason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

const detailColumns = `id, order_id, product_id, product_name, product_code, quantity, current_listed_price,
	current_sale_price, rating_star, rating_content, rated_at`

const paymentColumns = `id, order_id, payment_method, status, payment_code, transaction_no, bank_code,
	pay_date, refund_transaction_no, created_at, updated_at`

// loadRelations gắn details + payment cho danh sách order (2 query, không N+1)
func loadRelations(ctx context.Context, q pkgdb.Querier, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*model.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Details = []model.OrderDetail{}
	}

	rows, err := q.Query(ctx, `SELECT `+detailColumns+` FROM order_details WHERE order_id = ANY($1) ORDER BY product_code`, ids)
	if err != nil {
		return fmt.Errorf("failed to load order details: %w", err)
	}
	for rows.Next() {
		var d model.OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.ProductName, &d.ProductCode, &d.Quantity,
			&d.CurrentListedPrice, &d.CurrentSalePrice, &d.RatingStar, &d.RatingContent, &d.RatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan order detail: %w", err)
		}
		o := byID[d.OrderID]
		o.Details = append(o.Details, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, `SELECT `+paymentColumns+` FROM order_payments WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to load order payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p paymentModel.OrderPayment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.PaymentMethod, &p.Status, &p.PaymentCode, &p.TransactionNo,
			&p.BankCode, &p.PayDate, &p.RefundTransactionNo, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan order payment: %w", err)
		}
		byID[p.OrderID].Payment = &p
	}
	return rows.Err()
}

func collectOrders(rows pgx.Rows) ([]*model.Order, error) {
	defer rows.Close()
	orders := []*model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// =====================================================
// READ
// =====================================================

func (r *postgresOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return findOrder(ctx, r.pool, id, false)
}

func findOrder(ctx context.Context, q pkgdb.Querier, id uuid.UUID, forUpdate bool) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	o, err := scanOrder(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if err := loadRelations(ctx, q, []*model.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresOrderRepository) List(ctx context.Context, req model.ListOrdersRequest) ([]*model.Order, int64, error) {
	conditions := []string{"1=1"}
	args := []any{}

	if req.UserID != nil {
		args = append(args, *req.UserID)
		conditions = append(conditions, fmt.Sprintf("o.user_id = $%d", len(args)))
	}
	if req.Status != "" {
		args = append(args, req.Status)
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders o WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	args = append(args, req.Limit, req.Offset())
	query := fmt.Sprintf(`SELECT %s FROM orders o WHERE %s ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := loadRelations(ctx, r.pool, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresOrderRepository) ListForExport(ctx context.Context, from, to time.Time, status model.OrderStatus) ([]*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.created_at >= $1 AND o.created_at < $2
		  AND ($3::text = '' OR o.status = $3::text)
		ORDER BY o.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, from, to, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for export: %w", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := loadRelations(ctx, r.pool, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// =====================================================
// WRITE (ngoài transaction)
// =====================================================

func (r *postgresOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []model.OrderStatus, to model.OrderStatus) error {
	return updateStatus(ctx, r.pool, id, from, to, nil)
}

func updateStatus(ctx context.Context, q pkgdb.Querier, id uuid.UUID, from []model.OrderStatus, to model.OrderStatus, cancelReason *string) error {
	fromStr := make([]string, len(from))
	for i, s := range from {
		fromStr[i] = string(s)
	}

	tag, err := q.Exec(ctx, `
		UPDATE orders
		SET status = $2, cancel_reason = COALESCE($4, cancel_reason), updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
	`, id, to, fromStr, cancelReason)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStatusChanged
	}
	return nil
}

func (r *postgresOrderRepository) RateDetail(ctx context.Context, userID, orderID, productID uuid.UUID, stars int, content *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE order_details d
		SET rating_star = $4, rating_content = $5, rated_at = NOW()
		FROM orders o
		WHERE d.order_id = o.id
		  AND o.id = $1 AND o.user_id = $2 AND o.status = 'Completed'
		  AND d.product_id = $3 AND d.rating_star IS NULL
	`, orderID, userID, productID, stars, content)
	if err != nil {
		return fmt.Errorf("failed to rate order detail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDetailNotRatable
	}
	return nil
}

// =====================================================
// TRANSACTIONAL REPOSITORY
// =====================================================

type txOrderRepository struct {
	q pkgdb.Querier
}

func (r *txOrderRepository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (*model.StockLine, error) {
	line := model.StockLine{Quantity: qty}
	err := r.q.QueryRow(ctx, `
		UPDATE products
		SET quantity_in_stock = quantity_in_stock - $2, sold = sold + $2, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
		RETURNING id, name, code, listed_price, sale_price, quantity_in_stock
	`, productID, qty).Scan(&line.ProductID, &line.Name, &line.Code, &line.ListedPrice, &line.SalePrice, &line.QuantityInStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}
	return &line, nil
}

func (r *txOrderRepository) RestoreStock(ctx context.Context, productID uuid.UUID, qty int) error {
	// sản phẩm đã bị xoá thì bỏ qua
	_, err := r.q.Exec(ctx, `
		UPDATE products
		SET quantity_in_stock = quantity_in_stock + $2, sold = GREATEST(sold - $2, 0), updated_at = NOW()
		WHERE id = $1
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}

func (r *txOrderRepository) RedeemVoucher(ctx context.Context, voucherID, userID uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE vouchers SET remain_quantity = remain_quantity - 1
		WHERE id = $1 AND remain_quantity > 0
	`, voucherID)
	if err != nil {
		return fmt.Errorf("failed to redeem voucher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVoucherUnavailable
	}

	tag, err = r.q.Exec(ctx, `
		INSERT INTO voucher_users (voucher_id, user_id, status, used_at)
		VALUES ($1, $2, 'Used', NOW())
		ON CONFLICT (voucher_id, user_id) DO UPDATE
		SET status = 'Used', used_at = NOW()
		WHERE voucher_users.status <> 'Used'
	`, voucherID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark voucher used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVoucherUnavailable
	}
	return nil
}

func (r *txOrderRepository) InsertOrder(ctx context.Context, o *model.Order) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO orders (code, user_id, voucher_id, voucher_code, receiver_name, order_phone, order_address,
			order_address_type, reminder, status, order_total_price, order_discount, order_final_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, o.Code, o.UserID, o.VoucherID, o.VoucherCode, o.ReceiverName, o.OrderPhone, o.OrderAddress,
		o.OrderAddressType, o.Reminder, o.Status, o.OrderTotalPrice, o.OrderDiscount, o.OrderFinalPrice,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range o.Details {
		d := &o.Details[i]
		d.OrderID = o.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO order_details (order_id, product_id, product_name, product_code, quantity,
				current_listed_price, current_sale_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, d.OrderID, d.ProductID, d.ProductName, d.ProductCode, d.Quantity, d.CurrentListedPrice, d.CurrentSalePrice,
		).Scan(&d.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order detail: %w", err)
		}
	}

	p := o.Payment
	p.OrderID = o.ID
	err = r.q.QueryRow(ctx, `
		INSERT INTO order_payments (order_id, payment_method, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, p.OrderID, p.PaymentMethod, p.Status).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order payment: %w", err)
	}
	return nil
}

func (r *txOrderRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return findOrder(ctx, r.q, id, true)
}

func (r *txOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []model.OrderStatus, to model.OrderStatus, cancelReason *string) error {
	return updateStatus(ctx, r.q, id, from, to, cancelReason)
}

func (r *txOrderRepository) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status paymentModel.PaymentStatus) error {
	_, err := r.q.Exec(ctx, `UPDATE order_payments SET status = $2, updated_at = NOW() WHERE order_id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}
