package flights

import (
	"context"
	"errors"
	"testing"

	"github.com/avetluv/flightbook/internal/amadeus"
	"github.com/avetluv/flightbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUpstreamClient struct {
	mock.Mock
}

func (m *MockUpstreamClient) SearchOffers(ctx context.Context, origin, destination, date string, adults int) ([]amadeus.Offer, error) {
	args := m.Called(ctx, origin, destination, date, adults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]amadeus.Offer), args.Error(1)
}

func (m *MockUpstreamClient) AirlineNames(ctx context.Context, codes []string) map[string]string {
	args := m.Called(ctx, codes)
	return args.Get(0).(map[string]string)
}

func (m *MockUpstreamClient) Locations(ctx context.Context, keyword string) ([]domain.Location, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetOffers(ctx context.Context, key string) ([]domain.FlightOffer, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.FlightOffer), args.Bool(1)
}

func (m *MockCache) SetOffers(ctx context.Context, key string, offers []domain.FlightOffer) error {
	args := m.Called(ctx, key, offers)
	return args.Error(0)
}

func offer(duration string, carrier string, price string, segments ...amadeus.Segment) amadeus.Offer {
	o := amadeus.Offer{
		Itineraries:            []amadeus.Itinerary{{Duration: duration, Segments: segments}},
		ValidatingAirlineCodes: []string{carrier},
	}
	o.Price.Total = price
	return o
}

func TestFlightService_Search_MissingParams(t *testing.T) {
	mockClient := &MockUpstreamClient{}
	service := NewFlightService(mockClient, nil)

	ctx := context.Background()

	testCases := []SearchInput{
		{Destination: "BOM", DepartureDate: "2025-04-01", Passengers: 1},
		{Origin: "DEL", DepartureDate: "2025-04-01", Passengers: 1},
		{Origin: "DEL", Destination: "BOM", Passengers: 1},
		{Origin: "DEL", Destination: "BOM", DepartureDate: "2025-04-01"},
	}

	for _, input := range testCases {
		offers, err := service.Search(ctx, input)
		assert.ErrorIs(t, err, ErrMissingParams)
		assert.Nil(t, offers)
	}
	mockClient.AssertNotCalled(t, "SearchOffers")
}

func TestFlightService_Search_TransformsOffers(t *testing.T) {
	mockClient := &MockUpstreamClient{}
	service := NewFlightService(mockClient, nil)
	ctx := context.Background()

	direct := offer("PT2H", "AI", "4500.00", amadeus.Segment{
		Departure: amadeus.SegmentPoint{IATACode: "DEL", At: "2025-04-01T06:00:00"},
		Arrival:   amadeus.SegmentPoint{IATACode: "BOM", At: "2025-04-01T08:00:00"},
	})
	multiLeg := offer("PT10H30M", "6E", "7800.00",
		amadeus.Segment{
			Departure: amadeus.SegmentPoint{IATACode: "DEL", At: "2025-04-01T09:00:00"},
			Arrival:   amadeus.SegmentPoint{IATACode: "HYD", At: "2025-04-01T11:00:00"},
		},
		amadeus.Segment{
			Departure: amadeus.SegmentPoint{IATACode: "HYD", At: "2025-04-01T13:00:00"},
			Arrival:   amadeus.SegmentPoint{IATACode: "MAA", At: "2025-04-01T15:00:00"},
		},
		amadeus.Segment{
			Departure: amadeus.SegmentPoint{IATACode: "MAA", At: "2025-04-01T17:00:00"},
			Arrival:   amadeus.SegmentPoint{IATACode: "BOM", At: "2025-04-01T19:30:00"},
		},
	)

	mockClient.On("SearchOffers", ctx, "DEL", "BOM", "2025-04-01", 2).
		Return([]amadeus.Offer{direct, multiLeg}, nil).Once()
	mockClient.On("AirlineNames", ctx, []string{"AI", "6E"}).
		Return(map[string]string{"AI": "Air India", "6E": "IndiGo"}).Once()

	offers, err := service.Search(ctx, SearchInput{Origin: "DEL", Destination: "BOM", DepartureDate: "2025-04-01", Passengers: 2})
	require.NoError(t, err)
	require.Len(t, offers, 2)

	assert.Equal(t, domain.FlightOffer{
		DepartureCity: "DEL",
		ArrivalCity:   "BOM",
		DepartureTime: "2025-04-01T06:00:00",
		ArrivalTime:   "2025-04-01T08:00:00",
		Price:         "4500.00",
		AirlineName:   "Air India",
		StopType:      "Non-stop",
		Duration:      "2h",
	}, offers[0])

	// Multi-segment: departure from the first segment, arrival from the
	// last, two stops.
	assert.Equal(t, "DEL", offers[1].DepartureCity)
	assert.Equal(t, "BOM", offers[1].ArrivalCity)
	assert.Equal(t, "2025-04-01T09:00:00", offers[1].DepartureTime)
	assert.Equal(t, "2025-04-01T19:30:00", offers[1].ArrivalTime)
	assert.Equal(t, "2 stop(s)", offers[1].StopType)
	assert.Equal(t, "10h 30m", offers[1].Duration)
	assert.Equal(t, "IndiGo", offers[1].AirlineName)

	mockClient.AssertExpectations(t)
}

func TestFlightService_Search_CacheHitSkipsUpstream(t *testing.T) {
	mockClient := &MockUpstreamClient{}
	mockCache := &MockCache{}
	service := NewFlightService(mockClient, mockCache)
	ctx := context.Background()

	cached := []domain.FlightOffer{{DepartureCity: "DEL", ArrivalCity: "BOM"}}
	mockCache.On("GetOffers", ctx, mock.AnythingOfType("string")).Return(cached, true).Once()

	offers, err := service.Search(ctx, SearchInput{Origin: "DEL", Destination: "BOM", DepartureDate: "2025-04-01", Passengers: 1})
	require.NoError(t, err)
	assert.Equal(t, cached, offers)

	mockClient.AssertNotCalled(t, "SearchOffers")
	mockCache.AssertExpectations(t)
}

func TestFlightService_Search_UpstreamError(t *testing.T) {
	mockClient := &MockUpstreamClient{}
	service := NewFlightService(mockClient, nil)
	ctx := context.Background()

	mockClient.On("SearchOffers", ctx, "DEL", "BOM", "2025-04-01", 1).
		Return(nil, errors.New("upstream down")).Once()

	_, err := service.Search(ctx, SearchInput{Origin: "DEL", Destination: "BOM", DepartureDate: "2025-04-01", Passengers: 1})
	assert.Error(t, err)
	mockClient.AssertNotCalled(t, "AirlineNames")
}

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"PT10H30M", "10h 30m"},
		{"PT45M", "45m"},
		{"PT2H", "2h"},
		{"PT1H5M", "1h 5m"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, formatDuration(tc.input), "input %q", tc.input)
	}
}

func TestStopLabel(t *testing.T) {
	assert.Equal(t, "Non-stop", stopLabel(1))
	assert.Equal(t, "1 stop(s)", stopLabel(2))
	assert.Equal(t, "2 stop(s)", stopLabel(3))
}
