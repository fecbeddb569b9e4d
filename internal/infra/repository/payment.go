package repository

import (
	"context"
	"time"

	"facility-booking/internal/domain/payment"
	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

const createPaymentSQL = `
INSERT INTO payments (
	id, booking_id, amount, currency, payment_type, provider, status,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx, createPaymentSQL,
		p.ID(), p.BookingID(), p.Amount(), p.Currency(),
		p.Type().String(), p.Provider(), p.Status().String(),
		p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

const findPaymentForUpdateSQL = `
SELECT id, booking_id, amount, currency, payment_type, provider, status,
       created_at, updated_at
FROM payments
WHERE id = $1
FOR UPDATE`

func (r *PaymentRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var (
		pid, bookingID       uuid.UUID
		amount               int64
		currency             string
		ptypeStr, provider   string
		statusStr            string
		createdAt, updatedAt time.Time
	)

	err := r.db.QueryRow(ctx, findPaymentForUpdateSQL, id).Scan(
		&pid, &bookingID, &amount, &currency, &ptypeStr, &provider, &statusStr,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment for update", err)
	}

	return payment.ReconstructPayment(
		pid, bookingID, amount, currency,
		payment.Type(ptypeStr), provider, payment.Status(statusStr),
		createdAt, updatedAt,
	), nil
}

const updatePaymentSQL = `
UPDATE payments
SET status = $2, updated_at = $3
WHERE id = $1`

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	tag, err := r.db.Exec(ctx, updatePaymentSQL, p.ID(), p.Status().String(), p.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}
