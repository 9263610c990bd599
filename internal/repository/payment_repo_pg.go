package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avetluv/flightbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	CreatePending(ctx context.Context, payment *domain.Payment) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)
	MarkCompleted(ctx context.Context, sessionID string) (*domain.Payment, error)
	DeleteStaleBefore(ctx context.Context, status domain.PaymentStatus, deadline time.Time) (int64, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

const paymentColumns = `id, session_id, order_id, booking_id, amount, currency, status, created_at`

func scanPayment(row pgx.Row, p *domain.Payment) error {
	return row.Scan(&p.ID, &p.SessionID, &p.OrderID, &p.BookingID, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt)
}

func (r *PGPaymentRepository) CreatePending(ctx context.Context, payment *domain.Payment) error {
	payment.Status = domain.PaymentStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO payments (session_id, order_id, booking_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		payment.SessionID, payment.OrderID, payment.BookingID, payment.Amount, payment.Currency, payment.Status).
		Scan(&payment.ID, &payment.CreatedAt)
}

func (r *PGPaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE session_id=$1`, sessionID)
	var p domain.Payment
	if err := scanPayment(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// MarkCompleted re-applies the same update if called again for an
// already-completed session; confirmation is deliberately not
// idempotency-guarded.
func (r *PGPaymentRepository) MarkCompleted(ctx context.Context, sessionID string) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `UPDATE payments SET status=$1 WHERE session_id=$2 RETURNING `+paymentColumns, domain.PaymentStatusCompleted, sessionID)
	var p domain.Payment
	if err := scanPayment(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DeleteStaleBefore is the operational cleanup behind the short
// retention window for unreconciled payment records.
func (r *PGPaymentRepository) DeleteStaleBefore(ctx context.Context, status domain.PaymentStatus, deadline time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM payments WHERE status=$1 AND created_at <= $2`, status, deadline)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
