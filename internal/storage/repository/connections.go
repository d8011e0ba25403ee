package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// CreateConnection вставляет новый коннект со статусом pending и
// возвращает его. Пара (sender, receiver) уникальна навсегда: повторная
// попытка завершается конфликтом независимо от статуса существующей записи.
func (s *Storage) CreateConnection(ctx context.Context, senderUID, receiverUID string) (*models.Connection, error) {
	const op = "storage.CreateConnection"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	existing, err := s.FindConnection(ctx, senderUID, receiverUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("connection already exists with status %s", existing.Status))
	}

	query := `INSERT INTO connections (sender_uid, receiver_uid, status)
			  VALUES ($1, $2, 'pending')
			  RETURNING id, sender_uid, receiver_uid, status, nudge_id, created_at`
	var result models.Connection
	var nudgeID sql.NullInt64
	row := s.DB.QueryRowContext(ctx, query, senderUID, receiverUID)
	if err := row.Scan(&result.ID, &result.SenderUID, &result.ReceiverUID,
		&result.Status, &nudgeID, &result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if nudgeID.Valid {
		id := int(nudgeID.Int64)
		result.NudgeID = &id
	}
	return &result, nil
}

// FindConnection возвращает коннект пары (sender, receiver) или nil,
// если его нет.
func (s *Storage) FindConnection(ctx context.Context, senderUID, receiverUID string) (*models.Connection, error) {
	const op = "storage.FindConnection"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, receiver_uid, status, nudge_id, created_at
			  FROM connections
			  WHERE sender_uid = $1 AND receiver_uid = $2`
	var result models.Connection
	var nudgeID sql.NullInt64
	row := s.DB.QueryRowContext(ctx, query, senderUID, receiverUID)
	err := row.Scan(&result.ID, &result.SenderUID, &result.ReceiverUID,
		&result.Status, &nudgeID, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if nudgeID.Valid {
		id := int(nudgeID.Int64)
		result.NudgeID = &id
	}
	return &result, nil
}

// ReadConnection возвращает коннект по его ID.
func (s *Storage) ReadConnection(ctx context.Context, id int) (*models.Connection, error) {
	const op = "storage.ReadConnection"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, receiver_uid, status, nudge_id, created_at
			  FROM connections WHERE id = $1`
	var result models.Connection
	var nudgeID sql.NullInt64
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&result.ID, &result.SenderUID, &result.ReceiverUID,
		&result.Status, &nudgeID, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("connection not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if nudgeID.Valid {
		id := int(nudgeID.Int64)
		result.NudgeID = &id
	}
	return &result, nil
}

// ListConnectionsBySender возвращает коннекты, созданные пользователем.
func (s *Storage) ListConnectionsBySender(ctx context.Context, senderUID string) ([]*models.Connection, error) {
	const op = "storage.ListConnectionsBySender"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, receiver_uid, status, nudge_id, created_at
			  FROM connections
			  WHERE sender_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, senderUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Connection
	for rows.Next() {
		var item models.Connection
		var nudgeID sql.NullInt64
		if err := rows.Scan(&item.ID, &item.SenderUID, &item.ReceiverUID,
			&item.Status, &nudgeID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if nudgeID.Valid {
			id := int(nudgeID.Int64)
			item.NudgeID = &id
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListConnectionsForUser возвращает коннекты с участием пользователя
// с любой стороны, от новых к старым.
func (s *Storage) ListConnectionsForUser(ctx context.Context, userUID string) ([]*models.Connection, error) {
	const op = "storage.ListConnectionsForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, receiver_uid, status, nudge_id, created_at
			  FROM connections
			  WHERE sender_uid = $1 OR receiver_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Connection
	for rows.Next() {
		var item models.Connection
		var nudgeID sql.NullInt64
		if err := rows.Scan(&item.ID, &item.SenderUID, &item.ReceiverUID,
			&item.Status, &nudgeID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if nudgeID.Valid {
			id := int(nudgeID.Int64)
			item.NudgeID = &id
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
