package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// SendNudge создаёт надж от стартапа к инвестору. Все шаги выполняются
// в одной транзакции: проверка и расход квоты отправителя, создание или
// переиспользование коннекта пары, вставка наджа, обратная ссылка
// connection.nudge_id. Отказной коннект блокирует надж; исчерпанная
// квота и повторный надж той же паре завершаются доменной ошибкой.
func (s *Storage) SendNudge(ctx context.Context, senderUID, receiverUID string, expiresAt time.Time) (*models.Nudge, error) {
	const op = "storage.SendNudge"
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

	// Условный инкремент закрывает гонку двух конкурентных наджей
	// мимо проверки квоты: строка либо меняется, либо квота исчерпана.
	res, err := tx.ExecContext(ctx,
		`UPDATE users
		 SET nudge_usage = nudge_usage + 1
		 WHERE uid = $1 AND nudge_usage < nudge_limit`, senderUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, apperr.Quota("nudge limit reached")
	}

	var existingNudge int
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM nudges WHERE sender_uid = $1 AND receiver_uid = $2`,
		senderUID, receiverUID).Scan(&existingNudge)
	if err == nil {
		return nil, apperr.Conflict("nudge already sent to this investor")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var connectionID int
	var connectionStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT id, status FROM connections
		 WHERE sender_uid = $1 AND receiver_uid = $2
		 FOR UPDATE`, senderUID, receiverUID).Scan(&connectionID, &connectionStatus)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err = tx.QueryRowContext(ctx,
			`INSERT INTO connections (sender_uid, receiver_uid, status)
			 VALUES ($1, $2, 'pending')
			 RETURNING id`, senderUID, receiverUID).Scan(&connectionID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	case connectionStatus == models.StatusRejected:
		return nil, apperr.Conflict("cannot nudge a rejected connection")
	}

	var result models.Nudge
	row := tx.QueryRowContext(ctx,
		`INSERT INTO nudges (sender_uid, receiver_uid, status, amount, currency,
		     payment_status, connection_id, expires_at)
		 VALUES ($1, $2, 'pending', 0, 'VCR', 'pending', $3, $4)
		 RETURNING id, sender_uid, receiver_uid, status, amount, currency,
		     payment_status, connection_id, created_at, expires_at`,
		senderUID, receiverUID, connectionID, expiresAt)
	if err = row.Scan(&result.ID, &result.SenderUID, &result.ReceiverUID,
		&result.Status, &result.Amount, &result.Currency, &result.PaymentStatus,
		&result.ConnectionID, &result.CreatedAt, &result.ExpiresAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE connections SET nudge_id = $1 WHERE id = $2`,
		result.ID, connectionID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateNudgeStatus переводит pending-надж в новый статус от имени
// получателя. Принятие каскадно принимает связанный коннект; отказ
// коннект не трогает. Проверка, запись и каскад идут в одной транзакции.
func (s *Storage) UpdateNudgeStatus(ctx context.Context, id int, receiverUID, newStatus string) (*models.Nudge, error) {
	const op = "storage.UpdateNudgeStatus"
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

	var result models.Nudge
	row := tx.QueryRowContext(ctx,
		`SELECT id, sender_uid, receiver_uid, status, amount, currency,
		     payment_status, connection_id, created_at, expires_at
		 FROM nudges
		 WHERE id = $1 AND receiver_uid = $2
		 FOR UPDATE`, id, receiverUID)
	if err = row.Scan(&result.ID, &result.SenderUID, &result.ReceiverUID,
		&result.Status, &result.Amount, &result.Currency, &result.PaymentStatus,
		&result.ConnectionID, &result.CreatedAt, &result.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("nudge not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if result.Status != models.StatusPending {
		return nil, apperr.Conflict(fmt.Sprintf("nudge already %s", result.Status))
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE nudges SET status = $1 WHERE id = $2`, newStatus, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if newStatus == models.StatusAccepted {
		if _, err = tx.ExecContext(ctx,
			`UPDATE connections SET status = 'accepted' WHERE id = $1`,
			result.ConnectionID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result.Status = newStatus
	return &result, nil
}

// SweepExpiredNudges переводит просроченные pending-наджи в expired.
// Идемпотентная ленивая чистка на путях чтения, как у взаимодействий.
func (s *Storage) SweepExpiredNudges(ctx context.Context) (int, error) {
	const op = "storage.SweepExpiredNudges"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE nudges
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

// ListNudgesForReceiver возвращает наджи, адресованные пользователю.
func (s *Storage) ListNudgesForReceiver(ctx context.Context, receiverUID string) ([]*models.Nudge, error) {
	const op = "storage.ListNudgesForReceiver"
	return s.listNudges(ctx, op, `receiver_uid = $1`, receiverUID)
}

// ListNudgesBySender возвращает наджи, отправленные пользователем.
func (s *Storage) ListNudgesBySender(ctx context.Context, senderUID string) ([]*models.Nudge, error) {
	const op = "storage.ListNudgesBySender"
	return s.listNudges(ctx, op, `sender_uid = $1`, senderUID)
}

func (s *Storage) listNudges(ctx context.Context, op, where, uid string) ([]*models.Nudge, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, receiver_uid, status, amount, currency,
			      payment_status, connection_id, created_at, expires_at
			  FROM nudges
			  WHERE ` + where + `
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Nudge
	for rows.Next() {
		var item models.Nudge
		if err := rows.Scan(&item.ID, &item.SenderUID, &item.ReceiverUID,
			&item.Status, &item.Amount, &item.Currency, &item.PaymentStatus,
			&item.ConnectionID, &item.CreatedAt, &item.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
