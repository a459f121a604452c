package payment

import (
	"errors"
	"fmt"
	"log"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
)

// ErrOrderCreateFailed wraps gateway-side order creation failures
var ErrOrderCreateFailed = errors.New("failed to create order")

// Gateway abstracts the payment gateway's order-create operation
type Gateway interface {
	CreateOrder(amountPaise int64, currency, receipt string) (*models.Order, error)
}

// RazorpayGateway creates payment orders through the Razorpay API
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
}

// NewRazorpayGateway creates a gateway client with the given API credentials
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	if keyID == "" || keySecret == "" {
		log.Println("WARNING: Razorpay credentials not configured - order creation will fail")
	}

	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
	}
}

// CreateOrder asks Razorpay for a payment order. Amount is in paise;
// payment_capture=1 means the payment is auto-captured on success.
func (g *RazorpayGateway) CreateOrder(amountPaise int64, currency, receipt string) (*models.Order, error) {
	log.Printf("Creating Razorpay order: %d %s, receipt %s", amountPaise, currency, receipt)

	data := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}

	raw, err := g.client.Order.Create(data, nil)
	if err != nil {
		log.Printf("Failed to create Razorpay order: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}

	order := &models.Order{
		Currency: currency,
		Receipt:  receipt,
	}
	if id, ok := raw["id"].(string); ok {
		order.ID = id
	}
	if amount, ok := raw["amount"].(float64); ok {
		order.Amount = int64(amount)
	} else {
		order.Amount = amountPaise
	}
	if cur, ok := raw["currency"].(string); ok {
		order.Currency = cur
	}
	if rcpt, ok := raw["receipt"].(string); ok {
		order.Receipt = rcpt
	}

	log.Printf("Razorpay order created: %s", order.ID)
	return order, nil
}
