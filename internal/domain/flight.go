package domain

import "time"

// FlightOffer is a single transformed upstream search result. It is never
// persisted as-is; times are kept in the upstream string form so the
// frontend receives them untouched.
type FlightOffer struct {
	DepartureCity string `json:"departureCity"`
	ArrivalCity   string `json:"arrivalCity"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	Price         string `json:"price"`
	AirlineName   string `json:"airlineName"`
	StopType      string `json:"stopType"`
	Duration      string `json:"duration"`
}

// Flight is a persisted flight leg. At most one row exists per
// (airline, departure city, arrival city, departure time, arrival time).
type Flight struct {
	ID            int64     `json:"id"`
	AirlineName   string    `json:"airlineName"`
	DepartureCity string    `json:"departureCity"`
	ArrivalCity   string    `json:"arrivalCity"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	Price         float64   `json:"price"`
	Duration      string    `json:"duration"`
	StopType      string    `json:"stopType"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Location struct {
	Name     string `json:"name"`
	IATACode string `json:"iataCode"`
}
