package api

import (
	"errors"
	"net/http"

	"github.com/avetluv/flightbook/internal/auth"
	"github.com/avetluv/flightbook/internal/repository"
	"github.com/avetluv/flightbook/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *Handler) createBooking(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token is required"})
		return
	}

	var input booking.BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking payload"})
		return
	}

	created, err := h.bookings.Book(c.Request.Context(), input, identity)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Internal failure detail stays in the logs; the client gets a
		// generic message.
		logrus.Errorf("booking failed for user %d: %v", identity.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an error occurred while processing your booking"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": created})
}

func (h *Handler) bookingHistory(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token is required"})
		return
	}

	bookings, err := h.bookings.History(c.Request.Context(), identity.UserID)
	if err != nil {
		logrus.Errorf("booking history failed for user %d: %v", identity.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) cancelBooking(c *gin.Context) {
	bookingID := c.Param("bookingId")

	cancelled, err := h.bookings.Cancel(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		logrus.Errorf("cancel booking %s failed: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": cancelled})
}
