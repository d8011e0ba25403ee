package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// CreateInteraction вставляет новую запись взаимодействия и возвращает её ID.
func (s *Storage) CreateInteraction(ctx context.Context, entry models.Interaction) (int, error) {
	const op = "storage.CreateInteraction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO interactions (sender_uid, receiver_uid, status, amount,
			      currency, message, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		entry.SenderUID, entry.ReceiverUID, entry.Status, entry.Amount,
		entry.Currency, entry.Message, entry.ExpiresAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadInteraction возвращает запись взаимодействия по её ID.
func (s *Storage) ReadInteraction(ctx context.Context, id int) (*models.Interaction, error) {
	const op = "storage.ReadInteraction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, receiver_uid, status, amount, currency,
			      message, created_at, expires_at
			  FROM interactions WHERE id = $1`
	var result models.Interaction
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&result.ID, &result.SenderUID, &result.ReceiverUID,
		&result.Status, &result.Amount, &result.Currency, &result.Message,
		&result.CreatedAt, &result.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("interaction not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// FindLiveInteraction возвращает живую (pending или accepted) запись между
// парой пользователей в любом направлении, либо nil, если её нет.
// Rejected и expired записи новой попытке не мешают.
func (s *Storage) FindLiveInteraction(ctx context.Context, firstUID, secondUID string) (*models.Interaction, error) {
	const op = "storage.FindLiveInteraction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, receiver_uid, status, amount, currency,
			      message, created_at, expires_at
			  FROM interactions
			  WHERE status IN ('pending', 'accepted')
			    AND ((sender_uid = $1 AND receiver_uid = $2)
			      OR (sender_uid = $2 AND receiver_uid = $1))
			  LIMIT 1`
	var result models.Interaction
	row := s.DB.QueryRowContext(ctx, query, firstUID, secondUID)
	err := row.Scan(&result.ID, &result.SenderUID, &result.ReceiverUID,
		&result.Status, &result.Amount, &result.Currency, &result.Message,
		&result.CreatedAt, &result.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateInteractionStatus переводит pending-запись в новый статус от имени
// получателя. Проверка и запись выполняются в одной транзакции, чтобы два
// конкурентных accept/reject не потеряли обновление. Запись чужого
// получателя неотличима от отсутствующей.
func (s *Storage) UpdateInteractionStatus(ctx context.Context, id int, receiverUID, newStatus string) (*models.Interaction, error) {
	const op = "storage.UpdateInteractionStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var result models.Interaction
	row := tx.QueryRowContext(ctx,
		`SELECT id, sender_uid, receiver_uid, status, amount, currency,
		     message, created_at, expires_at
		 FROM interactions
		 WHERE id = $1 AND receiver_uid = $2
		 FOR UPDATE`, id, receiverUID)
	if err = row.Scan(&result.ID, &result.SenderUID, &result.ReceiverUID,
		&result.Status, &result.Amount, &result.Currency, &result.Message,
		&result.CreatedAt, &result.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("interaction not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if result.Status != models.StatusPending {
		return nil, apperr.Conflict(fmt.Sprintf("interaction already %s", result.Status))
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE interactions SET status = $1 WHERE id = $2`, newStatus, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result.Status = newStatus
	return &result, nil
}

// SweepExpiredInteractions переводит просроченные pending-записи в expired
// и возвращает количество затронутых строк. Вызывается в начале каждого
// пути чтения списков; повторный вызов ничего не меняет.
func (s *Storage) SweepExpiredInteractions(ctx context.Context) (int, error) {
	const op = "storage.SweepExpiredInteractions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE interactions
			  SET status = 'expired'
			  WHERE status = 'pending' AND expires_at <= NOW()`
	result, err := s.DB.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListAcceptedInteractions возвращает принятые взаимодействия, где
// пользователь выступает любой из сторон.
func (s *Storage) ListAcceptedInteractions(ctx context.Context, userUID string) ([]*models.Interaction, error) {
	const op = "storage.ListAcceptedInteractions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, receiver_uid, status, amount, currency,
			      message, created_at, expires_at
			  FROM interactions
			  WHERE status = 'accepted'
			    AND (sender_uid = $1 OR receiver_uid = $1)
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Interaction
	for rows.Next() {
		var item models.Interaction
		if err := rows.Scan(&item.ID, &item.SenderUID, &item.ReceiverUID,
			&item.Status, &item.Amount, &item.Currency, &item.Message,
			&item.CreatedAt, &item.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPendingInteractions возвращает ожидающие решения взаимодействия,
// где пользователь — получатель.
func (s *Storage) ListPendingInteractions(ctx context.Context, receiverUID string) ([]*models.Interaction, error) {
	const op = "storage.ListPendingInteractions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, receiver_uid, status, amount, currency,
			      message, created_at, expires_at
			  FROM interactions
			  WHERE status = 'pending' AND receiver_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, receiverUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Interaction
	for rows.Next() {
		var item models.Interaction
		if err := rows.Scan(&item.ID, &item.SenderUID, &item.ReceiverUID,
			&item.Status, &item.Amount, &item.Currency, &item.Message,
			&item.CreatedAt, &item.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteInteraction удаляет запись, если userUID — её отправитель или
// получатель, независимо от статуса. Проверка участия и удаление идут
// в одной транзакции; не-участнику возвращается not found, чтобы не
// раскрывать существование записи.
func (s *Storage) DeleteInteraction(ctx context.Context, id int, userUID string) error {
	const op = "storage.DeleteInteraction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var senderUID, receiverUID string
	row := tx.QueryRowContext(ctx,
		`SELECT sender_uid, receiver_uid FROM interactions WHERE id = $1 FOR UPDATE`, id)
	if err = row.Scan(&senderUID, &receiverUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("interaction not found")
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if senderUID != userUID && receiverUID != userUID {
		return apperr.NotFound("interaction not found")
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM interactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
