package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// Payment tracks one hosted checkout session. BookingID is a correlation
// key only, not a foreign key. Status moves Pending -> Completed (or
// Failed) driven by the provider confirmation callback.
type Payment struct {
	ID        int64         `json:"id"`
	SessionID string        `json:"sessionId"`
	OrderID   string        `json:"orderId"`
	BookingID string        `json:"bookingId"`
	Amount    float64       `json:"amount"`
	Currency  string        `json:"currency"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
