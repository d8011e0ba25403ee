package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// CreateNudgePurchase сохраняет заявку на покупку пакета наджей
// в статусе pending до подтверждения оплаты.
func (s *Storage) CreateNudgePurchase(ctx context.Context, purchase models.NudgePurchase) (int, error) {
	const op = "storage.CreateNudgePurchase"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	query := `INSERT INTO nudge_purchases (user_uid, quantity, price, currency, payment_id, payment_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query,
		purchase.UserUID, purchase.Quantity, purchase.Price,
		purchase.Currency, purchase.PaymentID, purchase.PaymentStatus).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadNudgePurchaseByPaymentID находит покупку по идентификатору платежа
// во внешней платёжной системе.
func (s *Storage) ReadNudgePurchaseByPaymentID(ctx context.Context, paymentID string) (*models.NudgePurchase, error) {
	const op = "storage.ReadNudgePurchaseByPaymentID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	query := `SELECT id, user_uid, quantity, price, currency, payment_id, payment_status, created_at
			  FROM nudge_purchases
			  WHERE payment_id = $1`
	var p models.NudgePurchase
	err := s.DB.QueryRowContext(ctx, query, paymentID).Scan(
		&p.ID, &p.UserUID, &p.Quantity, &p.Price,
		&p.Currency, &p.PaymentID, &p.PaymentStatus, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("purchase not found")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// CompleteNudgePurchase отмечает покупку оплаченной и начисляет
// пользователю купленный пакет одним переходом. Повторное подтверждение
// того же платежа не меняет ничего.
func (s *Storage) CompleteNudgePurchase(ctx context.Context, paymentID string) error {
	const op = "storage.CompleteNudgePurchase"
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

	var purchaseUID string
	var quantity int
	query := `UPDATE nudge_purchases
			  SET payment_status = $1
			  WHERE payment_id = $2 AND payment_status = $3
			  RETURNING user_uid, quantity`
	err = tx.QueryRowContext(ctx, query,
		models.PaymentCompleted, paymentID, models.PaymentPending).Scan(&purchaseUID, &quantity)
	if errors.Is(err, sql.ErrNoRows) {
		// либо платёж неизвестен, либо уже подтверждён
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET nudge_limit = nudge_limit + $1 WHERE uid = $2`,
		quantity, purchaseUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListNudgePurchases возвращает покупки пользователя от новых к старым.
func (s *Storage) ListNudgePurchases(ctx context.Context, userUID string) ([]*models.NudgePurchase, error) {
	const op = "storage.ListNudgePurchases"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	query := `SELECT id, user_uid, quantity, price, currency, payment_id, payment_status, created_at
			  FROM nudge_purchases
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.NudgePurchase
	for rows.Next() {
		var p models.NudgePurchase
		if err := rows.Scan(&p.ID, &p.UserUID, &p.Quantity, &p.Price,
			&p.Currency, &p.PaymentID, &p.PaymentStatus, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
