package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightbook_upstream_requests_total",
		Help: "The total number of requests sent to the flight-data provider",
	}, []string{"endpoint"})

	UpstreamRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightbook_upstream_rate_limited_total",
		Help: "The total number of 429 responses received from the flight-data provider",
	})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightbook_bookings_created_total",
		Help: "The total number of confirmed bookings",
	})

	EmailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightbook_confirmation_emails_sent_total",
		Help: "The total number of booking confirmation emails sent",
	})

	PaymentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightbook_payments_completed_total",
		Help: "The total number of payment sessions reconciled to Completed",
	})
)
