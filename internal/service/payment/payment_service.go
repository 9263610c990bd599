package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/avetluv/flightbook/internal/checkout"
	"github.com/avetluv/flightbook/internal/domain"
	"github.com/avetluv/flightbook/internal/metrics"
	"github.com/avetluv/flightbook/internal/repository"
)

var (
	ErrInvalidRequest  = errors.New("bookingId and a positive amount are required")
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrNotPaid means the provider reports the session exists but has
	// not been paid.
	ErrNotPaid = errors.New("payment has not been completed")
	// ErrPaymentMissing is the data-inconsistency case: the provider says
	// paid, but no local record tracks the session.
	ErrPaymentMissing = errors.New("payment record not found for a paid session")
)

type PaymentUseCase interface {
	CreateSession(ctx context.Context, bookingID string, amount float64) (*checkout.Session, error)
	ConfirmSession(ctx context.Context, sessionID string) (*domain.Payment, error)
}

type CheckoutProvider interface {
	CreateSession(ctx context.Context, params checkout.SessionParams) (*checkout.Session, error)
	GetSession(ctx context.Context, id string) (*checkout.Session, error)
}

type PaymentService struct {
	provider CheckoutProvider
	payments repository.PaymentRepository
	currency string
	now      func() time.Time
}

func NewPaymentService(provider CheckoutProvider, payments repository.PaymentRepository, currency string) *PaymentService {
	return &PaymentService{
		provider: provider,
		payments: payments,
		currency: currency,
		now:      time.Now,
	}
}

// CreateSession opens a hosted checkout session for a booking and
// records it locally as Pending. Validation happens before any provider
// call.
func (s *PaymentService) CreateSession(ctx context.Context, bookingID string, amount float64) (*checkout.Session, error) {
	if bookingID == "" || amount <= 0 {
		return nil, ErrInvalidRequest
	}

	orderID := s.newOrderID(bookingID)
	session, err := s.provider.CreateSession(ctx, checkout.SessionParams{
		BookingID: bookingID,
		OrderID:   orderID,
		Amount:    amount,
		Currency:  s.currency,
	})
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		SessionID: session.ID,
		OrderID:   orderID,
		BookingID: bookingID,
		Amount:    amount,
		Currency:  s.currency,
	}
	if err := s.payments.CreatePending(ctx, payment); err != nil {
		return nil, fmt.Errorf("store payment: %w", err)
	}
	return session, nil
}

// ConfirmSession re-checks the session with the provider and, only if
// the provider reports it paid, promotes the local record to Completed.
// An unpaid session mutates nothing.
func (s *PaymentService) ConfirmSession(ctx context.Context, sessionID string) (*domain.Payment, error) {
	if sessionID == "" {
		return nil, ErrInvalidRequest
	}

	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, checkout.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.Paid {
		return nil, ErrNotPaid
	}

	// Provider says paid: the session must be tracked locally. A missing
	// record here is the data-inconsistency case, reported distinctly.
	if _, err := s.payments.GetBySessionID(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentMissing
		}
		return nil, err
	}

	payment, err := s.payments.MarkCompleted(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentMissing
		}
		return nil, err
	}
	metrics.PaymentsCompleted.Inc()
	return payment, nil
}

// newOrderID builds a human-traceable merchant reference. The random
// suffix only disambiguates sessions created within the same
// millisecond.
func (s *PaymentService) newOrderID(bookingID string) string {
	return fmt.Sprintf("ORDER_%s_%d_%d", bookingID, s.now().UnixMilli(), rand.Intn(10000))
}

var _ PaymentUseCase = (*PaymentService)(nil)
