package amadeus

import (
	"context"
	"net/url"

	"github.com/avetluv/flightbook/internal/domain"
)

type locationsResponse struct {
	Data []struct {
		Name     string `json:"name"`
		IATACode string `json:"iataCode"`
	} `json:"data"`
}

// Locations looks up city and airport codes matching a keyword.
func (c *Client) Locations(ctx context.Context, keyword string) ([]domain.Location, error) {
	query := url.Values{
		"keyword": {keyword},
		"subType": {"CITY,AIRPORT"},
	}

	var out locationsResponse
	if err := c.getJSON(ctx, "/v1/reference-data/locations", query, &out); err != nil {
		return nil, err
	}

	locations := make([]domain.Location, 0, len(out.Data))
	for _, l := range out.Data {
		locations = append(locations, domain.Location{Name: l.Name, IATACode: l.IATACode})
	}
	return locations, nil
}
