package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/models"
)

// SavePayment сохраняет платёж и возвращает его ID.
func (s *Storage) SavePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.SavePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_uid, subscription_id, provider_payment_id,
			      amount_cents, currency, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	var subID sql.NullInt64
	if payment.SubscriptionID != nil {
		subID = sql.NullInt64{Int64: int64(*payment.SubscriptionID), Valid: true}
	}
	var newID int
	if err := s.DB.QueryRowContext(ctx, query,
		payment.UserUID, subID, payment.ProviderPaymentID,
		payment.AmountCents, payment.Currency, payment.Status).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	var subID sql.NullInt64
	if err := row.Scan(&p.ID, &p.UserUID, &subID, &p.ProviderPaymentID,
		&p.AmountCents, &p.Currency, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	if subID.Valid {
		id := int(subID.Int64)
		p.SubscriptionID = &id
	}
	return p, nil
}

const paymentColumns = `id, user_uid, subscription_id, provider_payment_id,
			      amount_cents, currency, status, created_at`

// ListPayments возвращает все платежи с пагинацией, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPaymentsByUser возвращает платежи пользователя, новые первыми.
func (s *Storage) ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePaymentStatus обновляет статус платежа по идентификатору провайдера
// и возвращает обновлённый платёж.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, providerPaymentID, status string) (*models.Payment, error) {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1
			  WHERE provider_payment_id = $2
			  RETURNING ` + paymentColumns
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, status, providerPaymentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
