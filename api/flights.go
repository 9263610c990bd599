package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avetluv/flightbook/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *Handler) searchFlights(c *gin.Context) {
	passengers, _ := strconv.Atoi(c.Query("passengers"))
	input := flights.SearchInput{
		Origin:        c.Query("origin"),
		Destination:   c.Query("destination"),
		DepartureDate: c.Query("departureDate"),
		Passengers:    passengers,
	}

	offers, err := h.flights.Search(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, flights.ErrMissingParams) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logrus.Errorf("flight search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch flight results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": offers})
}

func (h *Handler) searchLocations(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	locations, err := h.flights.Locations(c.Request.Context(), keyword)
	if err != nil {
		logrus.Errorf("location lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch locations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
