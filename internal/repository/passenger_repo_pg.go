package repository

import (
	"context"

	"github.com/avetluv/flightbook/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	CreateAll(ctx context.Context, passengers []domain.Passenger) ([]int64, error)
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

// CreateAll inserts one row per passenger, unconditionally (no dedup),
// and returns the new ids in submission order. Runs on the context's
// transaction when one is active.
func (r *PGPassengerRepository) CreateAll(ctx context.Context, passengers []domain.Passenger) ([]int64, error) {
	db := queries(ctx, r.db)
	ids := make([]int64, 0, len(passengers))
	for _, p := range passengers {
		var id int64
		err := db.QueryRow(ctx, `INSERT INTO passengers (first_name, last_name, gender, country_code, mobile_no, email, requires_wheelchair)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			p.FirstName, p.LastName, p.Gender, p.CountryCode, p.MobileNo, p.Email, p.RequiresWheelchair).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
