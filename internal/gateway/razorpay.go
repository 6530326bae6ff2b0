package gateway

import (
	"context"
	"fmt"

	"github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// PaymentIntent is the opaque gateway-side handle for a pending charge.
type PaymentIntent struct {
	IntentID    string
	AmountPaise int64
	Currency    string
}

// PaymentGateway is the narrow surface the lifecycle engine depends on.
// Wrapping the SDK behind an interface keeps the engine testable.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountPaise int64, currency, receipt string) (*PaymentIntent, error)

	// VerifyPaymentSignature checks a client-reported payment outcome
	// against the gateway's HMAC before the engine trusts it.
	VerifyPaymentSignature(intentID, paymentID, signature string) bool
}

type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

func (g *RazorpayGateway) CreateIntent(
	ctx context.Context,
	amountPaise int64,
	currency string,
	receipt string,
) (*PaymentIntent, error) {

	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, _ := order["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order create: response missing id")
	}

	return &PaymentIntent{
		IntentID:    id,
		AmountPaise: amountPaise,
		Currency:    currency,
	}, nil
}

func (g *RazorpayGateway) VerifyPaymentSignature(intentID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   intentID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, g.keySecret)
}

var _ PaymentGateway = (*RazorpayGateway)(nil)
