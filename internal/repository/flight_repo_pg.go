package repository

import (
	"context"
	"errors"

	"github.com/avetluv/flightbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	GetOrCreate(ctx context.Context, flight *domain.Flight) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

// GetOrCreate inserts the flight unless a row with the same composite key
// (airline_name, departure_city, arrival_city, departure_time,
// arrival_time) already exists, and returns the stored row either way.
// The unique index on the composite key makes this safe under
// concurrent booking requests. Runs on the context's transaction when
// one is active.
func (r *PGFlightRepository) GetOrCreate(ctx context.Context, flight *domain.Flight) (*domain.Flight, error) {
	db := queries(ctx, r.db)
	row := db.QueryRow(ctx, `INSERT INTO flights (airline_name, departure_city, arrival_city, departure_time, arrival_time, price, duration, stop_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (airline_name, departure_city, arrival_city, departure_time, arrival_time) DO NOTHING
		RETURNING id, created_at`,
		flight.AirlineName, flight.DepartureCity, flight.ArrivalCity, flight.DepartureTime, flight.ArrivalTime, flight.Price, flight.Duration, flight.StopType)

	err := row.Scan(&flight.ID, &flight.CreatedAt)
	if err == nil {
		return flight, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Conflict: the flight pre-existed, return it as stored (its price
	// and labels may differ from the payload's).
	row = db.QueryRow(ctx, `SELECT id, airline_name, departure_city, arrival_city, departure_time, arrival_time, price, duration, stop_type, created_at
		FROM flights
		WHERE airline_name=$1 AND departure_city=$2 AND arrival_city=$3 AND departure_time=$4 AND arrival_time=$5`,
		flight.AirlineName, flight.DepartureCity, flight.ArrivalCity, flight.DepartureTime, flight.ArrivalTime)

	var f domain.Flight
	if err := row.Scan(&f.ID, &f.AirlineName, &f.DepartureCity, &f.ArrivalCity, &f.DepartureTime, &f.ArrivalTime, &f.Price, &f.Duration, &f.StopType, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
