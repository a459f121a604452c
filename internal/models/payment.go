package models

// OrderRequest is the body of POST /create-order.
// Amount is in major currency units (rupees); the gateway gets paise.
type OrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// Order mirrors the gateway-side payment order. Not persisted locally
// beyond the policy's OrderID reference.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // Minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// PolicyInput carries the policy fields of a verify-and-save request.
// Server-side generation fills in anything the client leaves blank, and
// the expiry date is always recomputed from start date + duration.
type PolicyInput struct {
	ID            string  `json:"id"` // Plan ID the policy was bought from
	PolicyNumber  string  `json:"policyNumber"`
	PolicyType    string  `json:"policyType"`
	Amount        float64 `json:"amount"`
	OriginalPrice float64 `json:"originalPrice"`
	Duration      string  `json:"duration"`
	StartDate     string  `json:"startDate"` // "2006-01-02"
	ExpiryDate    string  `json:"expiryDate"`
}

// CustomerInput carries the customer fields of a verify-and-save request
type CustomerInput struct {
	CustomerName  string `json:"customerName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	Address       string `json:"address"`
	City          string `json:"city"`
	VehicleNumber string `json:"vehicleNumber"`
}

// VerifyRequest is the body of POST /api/payments/verify-and-save,
// field names as delivered by the Razorpay checkout callback
type VerifyRequest struct {
	RazorpayPaymentID string        `json:"razorpay_payment_id"`
	RazorpayOrderID   string        `json:"razorpay_order_id"`
	RazorpaySignature string        `json:"razorpay_signature"`
	PolicyData        PolicyInput   `json:"policyData"`
	CustomerData      CustomerInput `json:"customerData"`
}

// PaymentResult is what a verified payment materializes into
type PaymentResult struct {
	PolicyID   string    `json:"policyId"`
	CustomerID string    `json:"customerId"`
	Policy     *Policy   `json:"policy"`
	Customer   *Customer `json:"customer"`
}
