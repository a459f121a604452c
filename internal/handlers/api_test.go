package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/payment"
	"github.com/kalyan-enterprises/rsa-backend/internal/routes"
	"github.com/kalyan-enterprises/rsa-backend/internal/services"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

const testSecret = "test_key_secret"

// fakeGateway stands in for Razorpay during handler tests
type fakeGateway struct {
	orderCount int
	failNext   bool
}

func (g *fakeGateway) CreateOrder(amountPaise int64, currency, receipt string) (*models.Order, error) {
	if g.failNext {
		return nil, fmt.Errorf("%w: gateway unavailable", payment.ErrOrderCreateFailed)
	}
	g.orderCount++
	return &models.Order{
		ID:       fmt.Sprintf("order_test%d", g.orderCount),
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func newTestApp(store storage.Store, gateway *fakeGateway, adminKey string) *fiber.App {
	app := fiber.New()
	routes.SetupRoutes(app, routes.Deps{
		Store:         store,
		Gateway:       gateway,
		PolicyService: services.NewPolicyService(store, testSecret, nil),
		Sessions:      services.NewWizardSessionManager(),
		Certificates:  services.NewCertificateService("Kalyan Enterprises"),
		AdminAPIKey:   adminKey,
		Version:       "test",
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "application/pdf" {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestCreateOrder(t *testing.T) {
	app := newTestApp(storage.NewMemoryStore(), &fakeGateway{}, "")

	resp, body := doJSON(t, app, "POST", "/create-order", map[string]interface{}{
		"amount":  1,
		"receipt": "r1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	order := body["order"].(map[string]interface{})
	assert.Equal(t, float64(100), order["amount"]) // paise
	assert.Equal(t, "INR", order["currency"])      // default
	assert.Equal(t, "r1", order["receipt"])
}

func TestCreateOrderValidation(t *testing.T) {
	app := newTestApp(storage.NewMemoryStore(), &fakeGateway{}, "")

	resp, body := doJSON(t, app, "POST", "/create-order", map[string]interface{}{
		"currency": "INR",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Amount and receipt are required", body["message"])
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	app := newTestApp(storage.NewMemoryStore(), &fakeGateway{failNext: true}, "")

	resp, body := doJSON(t, app, "POST", "/create-order", map[string]interface{}{
		"amount":  4499,
		"receipt": "r2",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "gateway unavailable")
}

func verifyBody(orderID, paymentID string) map[string]interface{} {
	return map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  payment.Sign(orderID, paymentID, testSecret),
		"policyData": map[string]interface{}{
			"id":            "Kalyan_001",
			"policyType":    "Standard Coverage",
			"amount":        1,
			"originalPrice": 3500,
			"duration":      "1 Year",
		},
		"customerData": map[string]interface{}{
			"customerName":  "Ravi Kumar",
			"email":         "ravi@example.com",
			"phoneNumber":   "9876543210",
			"address":       "12 MG Road",
			"city":          "Hyderabad",
			"vehicleNumber": "TS09AB1234",
		},
	}
}

func TestVerifyAndSaveEndToEnd(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newTestApp(store, &fakeGateway{}, "")

	// Create the gateway order first, like the checkout flow does
	resp, body := doJSON(t, app, "POST", "/create-order", map[string]interface{}{
		"amount":  1,
		"receipt": "r1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	orderID := body["order"].(map[string]interface{})["id"].(string)

	resp, body = doJSON(t, app, "POST", "/api/payments/verify-and-save", verifyBody(orderID, "pay_e2e"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["policyId"])
	assert.NotEmpty(t, body["customerId"])

	policy := body["data"].(map[string]interface{})["policy"].(map[string]interface{})
	assert.Equal(t, float64(1), policy["amount"])
	assert.Regexp(t, `^RSA-\d{12}-\d{3}$`, policy["policyNumber"])
	assert.Equal(t, body["customerId"], policy["customerId"])
}

func TestVerifyAndSaveBadSignature(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newTestApp(store, &fakeGateway{}, "")

	req := verifyBody("order_x", "pay_x")
	req["razorpay_signature"] = "deadbeef"

	resp, body := doJSON(t, app, "POST", "/api/payments/verify-and-save", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid payment signature", body["message"])

	policies, customers, _ := store.Counts()
	assert.Equal(t, int64(0), policies)
	assert.Equal(t, int64(0), customers)
}

func TestVerifyAndSaveMissingFields(t *testing.T) {
	app := newTestApp(storage.NewMemoryStore(), &fakeGateway{}, "")

	resp, body := doJSON(t, app, "POST", "/api/payments/verify-and-save", map[string]interface{}{
		"razorpay_order_id": "order_x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func seedPolicies(t *testing.T, store storage.Store) {
	t.Helper()
	now := time.Now()

	for i, expiry := range []time.Time{
		now.Add(400 * 24 * time.Hour), // Active
		now.Add(10 * 24 * time.Hour),  // Expiring Soon
		now.Add(-24 * time.Hour),      // Expired
	} {
		_, err := store.CreatePolicy(&models.Policy{
			PolicyType: "Standard Coverage",
			Amount:     1,
			Duration:   "1 Year",
			ExpiryDate: expiry,
			OrderID:    fmt.Sprintf("order_seed%d", i),
			PaymentID:  fmt.Sprintf("pay_seed%d", i),
		})
		assert.NoError(t, err)
	}
}

func TestListPoliciesStatusFilter(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPolicies(t, store)
	app := newTestApp(store, &fakeGateway{}, "")

	resp, body := doJSON(t, app, "GET", "/api/policies/?status=Expiring%20Soon", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])

	resp, body = doJSON(t, app, "GET", "/api/policies/?status=Expired", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])

	resp, body = doJSON(t, app, "GET", "/api/policies/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["total"])
}

func TestPolicyNotFound(t *testing.T) {
	app := newTestApp(storage.NewMemoryStore(), &fakeGateway{}, "")

	resp, _ := doJSON(t, app, "GET", "/api/policies/POL_MISSING", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/policies/POL_MISSING", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdatePolicyRecomputesExpiry(t *testing.T) {
	store := storage.NewMemoryStore()
	created, err := store.CreatePolicy(&models.Policy{
		PolicyType: "Standard Coverage",
		Duration:   "1 Year",
	})
	assert.NoError(t, err)

	app := newTestApp(store, &fakeGateway{}, "")

	resp, body := doJSON(t, app, "PUT", "/api/policies/"+created.PolicyID, map[string]interface{}{
		"duration":  "3 Year",
		"startDate": "2026-08-30",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	policy := body["policy"].(map[string]interface{})
	assert.Equal(t, "3 Year", policy["duration"])
	assert.Contains(t, policy["expiryDate"], "2029-08-30")
}

func TestUpdatePolicyPersistsZeroValues(t *testing.T) {
	store := storage.NewMemoryStore()
	created, err := store.CreatePolicy(&models.Policy{
		PolicyType:    "Premium Coverage",
		Amount:        4499,
		OriginalPrice: 6000,
		Duration:      "2 Year",
	})
	assert.NoError(t, err)

	app := newTestApp(store, &fakeGateway{}, "")

	// Clearing a field to zero must stick, same as any other value
	resp, _ := doJSON(t, app, "PUT", "/api/policies/"+created.PolicyID, map[string]interface{}{
		"amount":        0,
		"originalPrice": 0,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, "GET", "/api/policies/"+created.PolicyID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	policy := body["policy"].(map[string]interface{})
	assert.Equal(t, float64(0), policy["amount"])
	assert.Equal(t, float64(0), policy["originalPrice"])
}

func TestUpdateCustomerNormalizesAndPersistsClears(t *testing.T) {
	store := storage.NewMemoryStore()
	created, err := store.CreateCustomer(&models.Customer{
		CustomerName:  "Ravi Kumar",
		Email:         "ravi@example.com",
		PhoneNumber:   "+919876543210",
		VehicleNumber: "TS09AB1234",
	})
	assert.NoError(t, err)

	app := newTestApp(store, &fakeGateway{}, "")

	resp, body := doJSON(t, app, "PUT", "/api/customers/"+created.CustomerID, map[string]interface{}{
		"vehicleNumber": "ka 01 cd 5678",
		"phoneNumber":   "9000000000",
		"email":         "",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	customer := body["customer"].(map[string]interface{})
	assert.Equal(t, "KA01CD5678", customer["vehicleNumber"])
	assert.Equal(t, "+919000000000", customer["phoneNumber"])

	resp, body = doJSON(t, app, "GET", "/api/customers/"+created.CustomerID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	customer = body["customer"].(map[string]interface{})
	assert.Equal(t, "KA01CD5678", customer["vehicleNumber"])
	assert.Equal(t, "", customer["email"])
}

func TestAdminKeyGuard(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newTestApp(store, &fakeGateway{}, "secret-admin-key")

	// Without the key
	req := httptest.NewRequest("GET", "/api/policies/", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// With the key
	req = httptest.NewRequest("GET", "/api/policies/", nil)
	req.Header.Set("X-Admin-Key", "secret-admin-key")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Payment endpoints stay public
	resp, _ = doJSON(t, app, "POST", "/create-order", map[string]interface{}{
		"amount":  1,
		"receipt": "r1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDashboard(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPolicies(t, store)
	app := newTestApp(store, &fakeGateway{}, "")

	resp, body := doJSON(t, app, "GET", "/api/dashboard", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	dashboard := body["dashboard"].(map[string]interface{})
	assert.Equal(t, float64(1), dashboard["activePolicies"])
	assert.Equal(t, float64(1), dashboard["expiringSoon"])
	assert.Equal(t, float64(3), dashboard["totalRevenue"])

	distribution := dashboard["policyDistribution"].(map[string]interface{})
	assert.Equal(t, float64(3), distribution["oneYear"])
}

func TestPlanCatalogEndpoint(t *testing.T) {
	app := newTestApp(storage.NewMemoryStore(), &fakeGateway{}, "")

	resp, body := doJSON(t, app, "GET", "/api/plans", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["plans"], 3)
}

func TestWizardEndpoints(t *testing.T) {
	app := newTestApp(storage.NewMemoryStore(), &fakeGateway{}, "")

	resp, body := doJSON(t, app, "POST", "/api/wizard/start", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	sessionID := body["session"].(map[string]interface{})["sessionId"].(string)

	resp, body = doJSON(t, app, "PUT", "/api/wizard/"+sessionID+"/plan", map[string]interface{}{
		"planId": "Kalyan_003",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	session := body["session"].(map[string]interface{})
	assert.Equal(t, "Platinum Coverage", session["policyType"])

	resp, body = doJSON(t, app, "PUT", "/api/wizard/"+sessionID+"/details", map[string]interface{}{
		"customerName":  "Ravi Kumar",
		"email":         "ravi@example.com",
		"termsAccepted": true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/api/wizard/"+sessionID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	session = body["session"].(map[string]interface{})
	assert.Equal(t, "Ravi Kumar", session["customerName"])
	assert.Equal(t, true, session["termsAccepted"])
}

func TestCertificateEndpoint(t *testing.T) {
	store := storage.NewMemoryStore()
	policy := &models.Policy{
		PolicyType: "Standard Coverage",
		Amount:     4499,
		Duration:   "1 Year",
	}
	customer := &models.Customer{
		CustomerName:  "Ravi Kumar",
		VehicleNumber: "TS09AB1234",
	}
	assert.NoError(t, store.CreatePolicyWithCustomer(policy, customer))

	app := newTestApp(store, &fakeGateway{}, "")

	req := httptest.NewRequest("GET", "/api/policies/"+policy.PolicyID+"/certificate", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}
