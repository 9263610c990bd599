package api

import (
	"net/http"

	"github.com/avetluv/flightbook/internal/auth"
	"github.com/avetluv/flightbook/internal/service/booking"
	"github.com/avetluv/flightbook/internal/service/flights"
	"github.com/avetluv/flightbook/internal/service/payment"
	"github.com/avetluv/flightbook/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	flights  flights.FlightUseCase
	bookings booking.BookingUseCase
	payments payment.PaymentUseCase
	users    users.UserUseCase
	tokens   *auth.Manager
}

func NewHandler(
	flightSvc flights.FlightUseCase,
	bookingSvc booking.BookingUseCase,
	paymentSvc payment.PaymentUseCase,
	userSvc users.UserUseCase,
	tokens *auth.Manager,
) *Handler {
	return &Handler{
		flights:  flightSvc,
		bookings: bookingSvc,
		payments: paymentSvc,
		users:    userSvc,
		tokens:   tokens,
	}
}

// Register mounts all routes. Search, book, and history require a
// bearer credential; the rest of the surface is public, matching what
// the frontend expects.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/users/register", h.registerUser)
	api.POST("/users/login", h.loginUser)
	api.GET("/flights/locations", h.searchLocations)
	api.PUT("/flights/cancel/:bookingId", h.cancelBooking)
	api.POST("/payments/create", h.createCheckoutSession)
	api.POST("/payments/confirm", h.confirmPayment)

	protected := api.Group("/flights", h.tokens.Middleware())
	protected.GET("/search", h.searchFlights)
	protected.POST("/book", h.createBooking)
	protected.GET("/history", h.bookingHistory)
}
