package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avetluv/flightbook/api"
	"github.com/avetluv/flightbook/config"
	"github.com/avetluv/flightbook/internal/auth"
	"github.com/avetluv/flightbook/internal/service/booking"
	"github.com/avetluv/flightbook/internal/service/flights"
	"github.com/avetluv/flightbook/internal/service/payment"
	"github.com/avetluv/flightbook/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Run starts the HTTP API and blocks until the context is canceled or
// the server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	flightSvc flights.FlightUseCase,
	bookingSvc booking.BookingUseCase,
	paymentSvc payment.PaymentUseCase,
	userSvc users.UserUseCase,
	tokens *auth.Manager,
) error {
	router := gin.New()
	router.Use(gin.Recovery())

	api.NewHandler(flightSvc, bookingSvc, paymentSvc, userSvc, tokens).Register(router)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logrus.Infof("http server listening on %s", cfg.HTTP.Address)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
