package api

import (
	"errors"
	"net/http"

	"github.com/avetluv/flightbook/internal/service/payment"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type checkoutRequest struct {
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
}

func (h *Handler) createCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": payment.ErrInvalidRequest.Error()})
		return
	}

	session, err := h.payments.CreateSession(c.Request.Context(), req.BookingID, req.Amount)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logrus.Errorf("create checkout session failed for booking %s: %v", req.BookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkout session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID, "url": session.URL})
}

type confirmRequest struct {
	SessionID string `json:"sessionId"`
}

// confirmPayment maps each verification outcome to a distinct response:
// unknown session, session not yet paid, and the inconsistency case
// where the provider reports paid but no local record exists.
func (h *Handler) confirmPayment(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	confirmed, err := h.payments.ConfirmSession(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		case errors.Is(err, payment.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, payment.ErrNotPaid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, payment.ErrPaymentMissing):
			logrus.Errorf("paid session %s has no payment record", req.SessionID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			logrus.Errorf("confirm payment %s failed: %v", req.SessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm payment"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": confirmed})
}
