package database

import (
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgreSQL error codes dùng ở tầng repository
const (
	CodeUniqueViolation     pq.ErrorCode = "23505"
	CodeForeignKeyViolation pq.ErrorCode = "23503"
	CodeCheckViolation      pq.ErrorCode = "23514"
)

// PoolStats snapshot thống kê connection pool (dùng cho /health)
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

// Stats trả về thống kê hiện tại của pool
func (db *PostgresDB) Stats() *PoolStats {
	if db.Pool == nil {
		return &PoolStats{}
	}
	s := db.Pool.Stat()
	return &PoolStats{
		TotalConns:    s.TotalConns(),
		IdleConns:     s.IdleConns(),
		AcquiredConns: s.AcquiredConns(),
		MaxConns:      s.MaxConns(),
	}
}

// Close đóng pool. Safe to call multiple times
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}
	log.Println("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
}

// ErrorCode lấy SQLSTATE từ lỗi pgx hoặc lib/pq
func ErrorCode(err error) pq.ErrorCode {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pq.ErrorCode(pgErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// IsUniqueViolation kiểm tra lỗi duplicate key
func IsUniqueViolation(err error) bool {
	return ErrorCode(err) == CodeUniqueViolation
}

// ConstraintName trả về tên constraint bị vi phạm (nếu có)
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
