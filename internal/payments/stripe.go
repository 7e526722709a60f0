package payments

import (
	"context"
	"math"
	"os"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// StripeProcessor settles charges through Stripe PaymentIntents with
// manual capture: hold on Charge entry, capture on success path.
type StripeProcessor struct{}

// NewStripeProcessor initializes the stripe client with the STRIPE_API_KEY env var.
func NewStripeProcessor() *StripeProcessor {
	stripe.Key = os.Getenv("STRIPE_API_KEY")
	return &StripeProcessor{}
}

func (s *StripeProcessor) Charge(ctx context.Context, amount float64, currency, method string) (string, error) {
	id, err := s.hold(ctx, int64(math.Round(amount*100)), currency)
	if err != nil {
		return "", err
	}
	if err := s.capture(ctx, id); err != nil {
		_ = s.cancel(ctx, id)
		return "", err
	}
	return id, nil
}

// hold creates a PaymentIntent with capture_method=manual to hold funds.
func (s *StripeProcessor) hold(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

// capture finalizes a previously-held PaymentIntent.
func (s *StripeProcessor) capture(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Capture(paymentIntentID, nil)
	return err
}

// cancel releases the hold on a PaymentIntent.
func (s *StripeProcessor) cancel(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Cancel(paymentIntentID, nil)
	return err
}
