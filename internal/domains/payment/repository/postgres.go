package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-backend/internal/domains/payment/model"
)

type postgresPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &postgresPaymentRepository{pool: pool}
}

const paymentColumns = `p.id, p.order_id, p.payment_method, p.status, p.payment_code, p.transaction_no,
	p.bank_code, p.pay_date, p.refund_transaction_no, p.created_at, p.updated_at`

func paymentDest(p *model.OrderPayment) []any {
	return []any{&p.ID, &p.OrderID, &p.PaymentMethod, &p.Status, &p.PaymentCode, &p.TransactionNo,
		&p.BankCode, &p.PayDate, &p.RefundTransactionNo, &p.CreatedAt, &p.UpdatedAt}
}

func (r *postgresPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.OrderPayment, error) {
	var p model.OrderPayment
	err := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM order_payments p WHERE p.order_id = $1`, orderID).
		Scan(paymentDest(&p)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

func (r *postgresPaymentRepository) FindTargetByOrderCode(ctx context.Context, orderCode string) (*model.PaymentTarget, error) {
	query := `
		SELECT o.id, o.code, o.user_id, o.status, o.order_final_price, ` + paymentColumns + `
		FROM orders o
		JOIN order_payments p ON p.order_id = o.id
		WHERE o.code = $1
	`
	var t model.PaymentTarget
	dest := append([]any{&t.OrderID, &t.OrderCode, &t.UserID, &t.OrderStatus, &t.Amount}, paymentDest(&t.Payment)...)
	if err := r.pool.QueryRow(ctx, query, orderCode).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment target: %w", err)
	}
	return &t, nil
}

func (r *postgresPaymentRepository) SetPaymentCode(ctx context.Context, orderID uuid.UUID, paymentCode string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE order_payments SET payment_code = $2, updated_at = NOW() WHERE order_id = $1`,
		orderID, paymentCode)
	if err != nil {
		return fmt.Errorf("failed to set payment code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}

func (r *postgresPaymentRepository) Complete(ctx context.Context, in model.CompletePayment) (bool, error) {
	query := `
		UPDATE order_payments p
		SET status = 'Completed',
		    payment_code = COALESCE(NULLIF($2, ''), p.payment_code),
		    transaction_no = $3,
		    bank_code = NULLIF($4, ''),
		    pay_date = NULLIF($5, ''),
		    updated_at = NOW()
		FROM orders o
		WHERE p.order_id = o.id
		  AND o.code = $1
		  AND o.status <> 'Canceled'
		  AND p.status NOT IN ('Completed', 'Refunded')
	`
	tag, err := r.pool.Exec(ctx, query, in.OrderCode, in.PaymentCode, in.TransactionNo, in.BankCode, in.PayDate)
	if err != nil {
		return false, fmt.Errorf("failed to complete payment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresPaymentRepository) MarkRefunded(ctx context.Context, orderID uuid.UUID, refundTransactionNo string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE order_payments
		SET status = 'Refunded', refund_transaction_no = NULLIF($2, ''), updated_at = NOW()
		WHERE order_id = $1 AND status = 'Completed'
	`, orderID, refundTransactionNo)
	if err != nil {
		return fmt.Errorf("failed to mark payment refunded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}

func (r *postgresPaymentRepository) LogCallback(ctx context.Context, log *model.CallbackLog) error {
	payload, err := json.Marshal(log.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal callback payload: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO payment_callback_logs (order_code, transaction_no, source, response_code, signature_valid, processed, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, log.OrderCode, log.TransactionNo, log.Source, log.ResponseCode, log.SignatureValid, log.Processed, payload,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log payment callback: %w", err)
	}
	return nil
}
