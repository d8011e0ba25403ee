package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// CreateNotification сохраняет уведомление в ленту пользователя.
func (s *Storage) CreateNotification(ctx context.Context, n models.Notification) (int, error) {
	const op = "storage.CreateNotification"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	query := `INSERT INTO notifications (user_uid, type, message, link)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query, n.UserUID, n.Type, n.Message, n.Link).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListNotifications возвращает последние уведомления пользователя.
func (s *Storage) ListNotifications(ctx context.Context, userUID string, limit int) ([]*models.Notification, error) {
	const op = "storage.ListNotifications"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	query := `SELECT id, user_uid, type, message, link, is_read, created_at
			  FROM notifications
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserUID, &n.Type, &n.Message,
			&n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkNotificationsRead отмечает все уведомления пользователя прочитанными.
func (s *Storage) MarkNotificationsRead(ctx context.Context, userUID string) error {
	const op = "storage.MarkNotificationsRead"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	_, err := s.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_uid = $1 AND is_read = FALSE`,
		userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
