package repository

import (
	"context"
	"errors"

	"github.com/avetluv/flightbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, booking_id, user_id, flight_id, passenger_ids, status, airline_name, departure_city, arrival_city, departure_time, arrival_time, price, duration, stop_type, created_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.BookingID, &b.UserID, &b.FlightID, &b.PassengerIDs, &b.Status, &b.AirlineName, &b.DepartureCity, &b.ArrivalCity, &b.DepartureTime, &b.ArrivalTime, &b.Price, &b.Duration, &b.StopType, &b.CreatedAt)
}

// Create runs on the context's transaction when one is active, so the
// booking lands atomically with the flight and passenger writes.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return queries(ctx, r.db).QueryRow(ctx, `INSERT INTO bookings (booking_id, user_id, flight_id, passenger_ids, status, airline_name, departure_city, arrival_city, departure_time, arrival_time, price, duration, stop_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`,
		booking.BookingID, booking.UserID, booking.FlightID, booking.PassengerIDs, booking.Status,
		booking.AirlineName, booking.DepartureCity, booking.ArrivalCity, booking.DepartureTime, booking.ArrivalTime,
		booking.Price, booking.Duration, booking.StopType).
		Scan(&booking.ID, &booking.CreatedAt)
}

func (r *PGBookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id=$1`, bookingID)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1 WHERE booking_id=$2 RETURNING `+bookingColumns, status, bookingID)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
