package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// Passenger rows are created fresh for every booking submission,
// even when identical to a previous one.
type Passenger struct {
	ID                 int64  `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Gender             string `json:"gender"`
	CountryCode        string `json:"countryCode"`
	MobileNo           string `json:"mobileNo"`
	Email              string `json:"email"`
	RequiresWheelchair bool   `json:"requiresWheelchair"`
}

// Booking carries denormalized flight fields copied from the booking
// payload at creation time. They may diverge from the referenced Flight
// row if it pre-existed with different values.
type Booking struct {
	ID            int64         `json:"id"`
	BookingID     string        `json:"bookingId"`
	UserID        int64         `json:"userId"`
	FlightID      int64         `json:"flightId"`
	PassengerIDs  []int64       `json:"passengerIds"`
	Status        BookingStatus `json:"status"`
	AirlineName   string        `json:"airlineName"`
	DepartureCity string        `json:"departureCity"`
	ArrivalCity   string        `json:"arrivalCity"`
	DepartureTime time.Time     `json:"departureTime"`
	ArrivalTime   time.Time     `json:"arrivalTime"`
	Price         float64       `json:"price"`
	Duration      string        `json:"duration"`
	StopType      string        `json:"stopType"`
	CreatedAt     time.Time     `json:"createdAt"`
}
