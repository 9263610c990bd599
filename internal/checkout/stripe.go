package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// ErrSessionNotFound marks a session id the provider does not know.
var ErrSessionNotFound = errors.New("checkout session not found")

type SessionParams struct {
	BookingID string
	OrderID   string
	Amount    float64
	Currency  string
}

type Session struct {
	ID   string
	URL  string
	Paid bool
}

// StripeProvider creates and retrieves hosted checkout sessions. The
// redirect URLs are templated from the frontend base URL; Stripe fills
// the {CHECKOUT_SESSION_ID} placeholder itself.
type StripeProvider struct {
	api         *client.API
	frontendURL string
}

func NewStripeProvider(secretKey, frontendURL string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, frontendURL: frontendURL}
}

func (p *StripeProvider) CreateSession(ctx context.Context, sp SessionParams) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(sp.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Booking for " + sp.BookingID),
					},
					// Minor currency units.
					UnitAmount: stripe.Int64(int64(math.Round(sp.Amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.frontendURL + "/thank-you?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(fmt.Sprintf("%s/failed?bookingId=%s&amount=%v", p.frontendURL, sp.BookingID, sp.Amount)),
	}
	params.Context = ctx
	params.AddMetadata("bookingId", sp.BookingID)
	params.AddMetadata("orderId", sp.OrderID)

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL, Paid: s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid}, nil
}

func (p *StripeProvider) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL, Paid: s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid}, nil
}
