package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-backend/internal/domains/notification/model"
)

type postgresNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &postgresNotificationRepository{pool: pool}
}

// visibleTo: thông báo riêng của user + thông báo chung
const visibleTo = `(n.user_id = $1 OR n.user_id IS NULL)`

func (r *postgresNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, title, content, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		n.UserID, n.Type, n.Title, n.Content, n.Link,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *postgresNotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Notification, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications n WHERE `+visibleTo, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.user_id, n.type, n.title, n.content, n.link, n.created_at, nr.read_at
		FROM notifications n
		LEFT JOIN notification_reads nr ON nr.notification_id = n.id AND nr.user_id = $1
		WHERE `+visibleTo+`
		ORDER BY n.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Notification, error) {
		var n model.Notification
		if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Content, &n.Link, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, err
		}
		n.IsRead = n.ReadAt != nil
		return &n, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan notifications: %w", err)
	}
	return items, total, nil
}

func (r *postgresNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM notifications n
		WHERE `+visibleTo+`
		  AND NOT EXISTS (
		      SELECT 1 FROM notification_reads nr
		      WHERE nr.notification_id = n.id AND nr.user_id = $1
		  )`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *postgresNotificationRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	// INSERT ... SELECT: chỉ ghi nhận khi thông báo nhìn thấy được với user
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO notification_reads (notification_id, user_id)
		SELECT n.id, $1 FROM notifications n
		WHERE n.id = $2 AND `+visibleTo+`
		ON CONFLICT (notification_id, user_id) DO NOTHING`,
		userID, notificationID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// 0 rows: đã đọc rồi hoặc không tồn tại
	var exists bool
	err = r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notifications n WHERE n.id = $2 AND `+visibleTo+`)`,
		userID, notificationID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check notification: %w", err)
	}
	if !exists {
		return model.ErrNotificationNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO notification_reads (notification_id, user_id)
		SELECT n.id, $1 FROM notifications n
		WHERE `+visibleTo+`
		ON CONFLICT (notification_id, user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
