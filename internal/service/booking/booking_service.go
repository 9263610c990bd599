package booking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/avetluv/flightbook/internal/auth"
	"github.com/avetluv/flightbook/internal/domain"
	"github.com/avetluv/flightbook/internal/kafka"
	"github.com/avetluv/flightbook/internal/metrics"
	"github.com/avetluv/flightbook/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrInvalidPayload = errors.New("invalid booking payload")

type BookingUseCase interface {
	Book(ctx context.Context, input BookInput, user *auth.Identity) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*domain.Booking, error)
	History(ctx context.Context, userID int64) ([]domain.Booking, error)
}

// TicketRenderer produces the transient confirmation document and
// returns its file path.
type TicketRenderer interface {
	Render(booking *domain.Booking, passengers []domain.Passenger) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body, attachmentPath string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type FlightPayload struct {
	AirlineName   string `json:"airlineName"`
	DepartureCity string `json:"departureCity"`
	ArrivalCity   string `json:"arrivalCity"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	Price         string `json:"price"`
	Duration      string `json:"duration"`
	StopType      string `json:"stopType"`
}

type PassengerPayload struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Gender             string `json:"gender"`
	CountryCode        string `json:"countryCode"`
	MobileNo           string `json:"mobileNo"`
	Email              string `json:"email"`
	RequiresWheelchair bool   `json:"requiresWheelchair"`
}

type BookInput struct {
	Flight     *FlightPayload     `json:"flight"`
	Passengers []PassengerPayload `json:"passengerDetails"`
}

type BookingService struct {
	tx          repository.Transactor
	flights     repository.FlightRepository
	passengers  repository.PassengerRepository
	bookings    repository.BookingRepository
	renderer    TicketRenderer
	mailer      Mailer
	producer    Producer
	eventsTopic string
}

func NewBookingService(
	tx repository.Transactor,
	flights repository.FlightRepository,
	passengers repository.PassengerRepository,
	bookings repository.BookingRepository,
	renderer TicketRenderer,
	mailer Mailer,
	producer Producer,
	eventsTopic string,
) *BookingService {
	return &BookingService{
		tx:          tx,
		flights:     flights,
		passengers:  passengers,
		bookings:    bookings,
		renderer:    renderer,
		mailer:      mailer,
		producer:    producer,
		eventsTopic: eventsTopic,
	}
}

// Book runs the booking sequence: flight lookup-or-create, passenger
// creation, and booking creation inside one transaction, then ticket
// rendering, email dispatch, and ticket cleanup. A failure before the
// commit rolls all three writes back; a failure after it (render,
// email) leaves the committed booking visible and surfaces a single
// error to the handler. The composite-key upsert on flights is what
// keeps retried submissions from duplicating flight rows.
func (s *BookingService) Book(ctx context.Context, input BookInput, user *auth.Identity) (*domain.Booking, error) {
	flight, err := parseFlightPayload(input.Flight)
	if err != nil {
		return nil, err
	}
	if input.Passengers == nil {
		return nil, ErrInvalidPayload
	}

	passengers := make([]domain.Passenger, 0, len(input.Passengers))
	for _, p := range input.Passengers {
		passengers = append(passengers, domain.Passenger{
			FirstName:          p.FirstName,
			LastName:           p.LastName,
			Gender:             p.Gender,
			CountryCode:        p.CountryCode,
			MobileNo:           p.MobileNo,
			Email:              p.Email,
			RequiresWheelchair: p.RequiresWheelchair,
		})
	}

	// Denormalized flight fields come from the payload, not from the
	// stored row, so a pre-existing flight with different values does
	// not change what the customer booked.
	booking := &domain.Booking{
		BookingID:     "BOOKING-" + uuid.NewString(),
		UserID:        user.UserID,
		Status:        domain.BookingStatusConfirmed,
		AirlineName:   flight.AirlineName,
		DepartureCity: flight.DepartureCity,
		ArrivalCity:   flight.ArrivalCity,
		DepartureTime: flight.DepartureTime,
		ArrivalTime:   flight.ArrivalTime,
		Price:         flight.Price,
		Duration:      flight.Duration,
		StopType:      flight.StopType,
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		stored, err := s.flights.GetOrCreate(txCtx, flight)
		if err != nil {
			return fmt.Errorf("store flight: %w", err)
		}
		booking.FlightID = stored.ID

		passengerIDs, err := s.passengers.CreateAll(txCtx, passengers)
		if err != nil {
			return fmt.Errorf("store passengers: %w", err)
		}
		booking.PassengerIDs = passengerIDs

		if err := s.bookings.Create(txCtx, booking); err != nil {
			return fmt.Errorf("store booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ticketPath, err := s.renderer.Render(booking, passengers)
	if err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}

	body := fmt.Sprintf("Dear %s,\n\nYour flight booking is confirmed.\n\nBooking ID: %s\nStatus: %s\n\nThank you for booking with us!\n\nBest Regards,\nFlight Booking Team",
		user.Name, booking.BookingID, booking.Status)
	if err := s.mailer.Send(ctx, user.Email, "Flight Booking Confirmation", body, ticketPath); err != nil {
		return nil, fmt.Errorf("send confirmation email: %w", err)
	}
	metrics.EmailsSent.Inc()

	if err := os.Remove(ticketPath); err != nil {
		logrus.Warnf("failed to delete ticket %s: %v", ticketPath, err)
	}

	metrics.BookingsCreated.Inc()
	s.publish(ctx, "booking_created", booking, user.Email)
	return booking, nil
}

// Cancel transitions a booking to Cancelled. The transition never
// reverses; cancelling an already-cancelled booking is a no-op update.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_cancelled", booking, "")
	return booking, nil
}

func (s *BookingService) History(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, email string) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.BookingID,
		UserEmail:     email,
		AirlineName:   booking.AirlineName,
		DepartureCity: booking.DepartureCity,
		ArrivalCity:   booking.ArrivalCity,
		Status:        string(booking.Status),
		OccurredAt:    time.Now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.BookingID, event); err != nil {
		logrus.Warnf("failed to publish %s event for booking %s: %v", eventType, booking.BookingID, err)
	}
}

func parseFlightPayload(payload *FlightPayload) (*domain.Flight, error) {
	if payload == nil {
		return nil, ErrInvalidPayload
	}
	departure, err := parseTime(payload.DepartureTime)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	arrival, err := parseTime(payload.ArrivalTime)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	price, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	return &domain.Flight{
		AirlineName:   payload.AirlineName,
		DepartureCity: payload.DepartureCity,
		ArrivalCity:   payload.ArrivalCity,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Price:         price,
		Duration:      payload.Duration,
		StopType:      payload.StopType,
	}, nil
}

// parseTime accepts both the upstream's zone-less timestamps and full
// RFC3339 values.
func parseTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time value %q", value)
}

var _ BookingUseCase = (*BookingService)(nil)
