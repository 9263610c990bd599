package amadeus

import (
	"context"
	"net/url"
	"strconv"
)

type SegmentPoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type Segment struct {
	Departure SegmentPoint `json:"departure"`
	Arrival   SegmentPoint `json:"arrival"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Offer struct {
	Itineraries []Itinerary `json:"itineraries"`
	Price       struct {
		Total string `json:"total"`
	} `json:"price"`
	ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
}

type offersResponse struct {
	Data []Offer `json:"data"`
}

// SearchOffers runs a single offer-search call; no pagination, results
// come back in upstream order.
func (c *Client) SearchOffers(ctx context.Context, origin, destination, date string, adults int) ([]Offer, error) {
	query := url.Values{
		"originLocationCode":      {origin},
		"destinationLocationCode": {destination},
		"departureDate":           {date},
		"adults":                  {strconv.Itoa(adults)},
		"currencyCode":            {c.currency},
	}

	var out offersResponse
	if err := c.getJSON(ctx, "/v2/shopping/flight-offers", query, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
