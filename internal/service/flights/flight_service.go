package flights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/avetluv/flightbook/internal/amadeus"
	"github.com/avetluv/flightbook/internal/domain"
	"github.com/sirupsen/logrus"
)

var ErrMissingParams = errors.New("origin, destination, departureDate and passengers are all required")

type FlightUseCase interface {
	Search(ctx context.Context, input SearchInput) ([]domain.FlightOffer, error)
	Locations(ctx context.Context, keyword string) ([]domain.Location, error)
}

type UpstreamClient interface {
	SearchOffers(ctx context.Context, origin, destination, date string, adults int) ([]amadeus.Offer, error)
	AirlineNames(ctx context.Context, codes []string) map[string]string
	Locations(ctx context.Context, keyword string) ([]domain.Location, error)
}

type Cache interface {
	GetOffers(ctx context.Context, key string) ([]domain.FlightOffer, bool)
	SetOffers(ctx context.Context, key string, offers []domain.FlightOffer) error
}

type SearchInput struct {
	Origin        string
	Destination   string
	DepartureDate string
	Passengers    int
}

type FlightService struct {
	client UpstreamClient
	cache  Cache
}

func NewFlightService(client UpstreamClient, cache Cache) *FlightService {
	return &FlightService{client: client, cache: cache}
}

// Search validates the request, runs one upstream offer search and one
// batched airline-name lookup, and transforms the results in upstream
// order.
func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.FlightOffer, error) {
	if input.Origin == "" || input.Destination == "" || input.DepartureDate == "" || input.Passengers <= 0 {
		return nil, ErrMissingParams
	}

	key := searchKey(input)
	if s.cache != nil {
		if offers, ok := s.cache.GetOffers(ctx, key); ok {
			return offers, nil
		}
	}

	rawOffers, err := s.client.SearchOffers(ctx, input.Origin, input.Destination, input.DepartureDate, input.Passengers)
	if err != nil {
		return nil, err
	}

	names := s.client.AirlineNames(ctx, primaryCarrierCodes(rawOffers))

	offers := make([]domain.FlightOffer, 0, len(rawOffers))
	for _, raw := range rawOffers {
		if len(raw.Itineraries) == 0 || len(raw.Itineraries[0].Segments) == 0 {
			continue
		}
		itinerary := raw.Itineraries[0]
		first := itinerary.Segments[0]
		last := itinerary.Segments[len(itinerary.Segments)-1]

		airline := ""
		if len(raw.ValidatingAirlineCodes) > 0 {
			airline = names[raw.ValidatingAirlineCodes[0]]
		}

		offers = append(offers, domain.FlightOffer{
			DepartureCity: first.Departure.IATACode,
			ArrivalCity:   last.Arrival.IATACode,
			DepartureTime: first.Departure.At,
			ArrivalTime:   last.Arrival.At,
			Price:         raw.Price.Total,
			AirlineName:   airline,
			StopType:      stopLabel(len(itinerary.Segments)),
			Duration:      formatDuration(itinerary.Duration),
		})
	}

	if s.cache != nil {
		if err := s.cache.SetOffers(ctx, key, offers); err != nil {
			logrus.Warnf("failed to cache search results: %v", err)
		}
	}
	return offers, nil
}

func (s *FlightService) Locations(ctx context.Context, keyword string) ([]domain.Location, error) {
	return s.client.Locations(ctx, keyword)
}

// primaryCarrierCodes collects the distinct first validating carrier
// code of every offer, preserving first-seen order.
func primaryCarrierCodes(offers []amadeus.Offer) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, o := range offers {
		if len(o.ValidatingAirlineCodes) == 0 {
			continue
		}
		code := o.ValidatingAirlineCodes[0]
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

func stopLabel(segments int) string {
	stops := segments - 1
	if stops == 0 {
		return "Non-stop"
	}
	return fmt.Sprintf("%d stop(s)", stops)
}

var durationPattern = regexp.MustCompile(`PT(\d+H)?(\d+M)?`)

// formatDuration turns an ISO-8601-like duration token into a display
// string: "PT10H30M" -> "10h 30m", "PT45M" -> "45m", "PT2H" -> "2h".
// Absent parts are omitted, not zero-padded.
func formatDuration(duration string) string {
	match := durationPattern.FindStringSubmatch(duration)
	if match == nil {
		return duration
	}
	hours := strings.Replace(match[1], "H", "h ", 1)
	minutes := strings.Replace(match[2], "M", "m", 1)
	return strings.TrimSpace(hours + minutes)
}

func searchKey(input SearchInput) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d", input.Origin, input.Destination, input.DepartureDate, input.Passengers)))
	return "search:" + hex.EncodeToString(sum[:])
}

var _ FlightUseCase = (*FlightService)(nil)
