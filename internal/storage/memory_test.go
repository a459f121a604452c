package storage_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

func TestMemoryStorePolicyCRUD(t *testing.T) {
	store := storage.NewMemoryStore()

	policy, err := store.CreatePolicy(&models.Policy{
		PolicyType: "Standard Coverage",
		Amount:     1,
		Duration:   "1 Year",
		OrderID:    "order_1",
		PaymentID:  "pay_1",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, policy.PolicyID)
	assert.Regexp(t, `^RSA-\d{12}-\d{3}$`, policy.PolicyNumber)
	assert.Equal(t, models.PolicyStatusActive, policy.Status)
	assert.False(t, policy.ExpiryDate.IsZero())

	// Lookup by ID and by policy number
	byID, err := store.GetPolicy(policy.PolicyID)
	assert.NoError(t, err)
	assert.Equal(t, policy.PolicyID, byID.PolicyID)

	byNumber, err := store.GetPolicy(policy.PolicyNumber)
	assert.NoError(t, err)
	assert.Equal(t, policy.PolicyID, byNumber.PolicyID)

	policy.Amount = 2
	assert.NoError(t, store.UpdatePolicy(policy))

	assert.NoError(t, store.DeletePolicy(policy.PolicyID))
	_, err = store.GetPolicy(policy.PolicyID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestMemoryStoreGetPolicyByPayment(t *testing.T) {
	store := storage.NewMemoryStore()

	created, err := store.CreatePolicy(&models.Policy{
		OrderID:   "order_42",
		PaymentID: "pay_42",
	})
	assert.NoError(t, err)

	found, err := store.GetPolicyByPayment("order_42", "pay_42")
	assert.NoError(t, err)
	assert.Equal(t, created.PolicyID, found.PolicyID)

	_, err = store.GetPolicyByPayment("order_42", "pay_43")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestMemoryStoreCustomerCRUD(t *testing.T) {
	store := storage.NewMemoryStore()

	customer, err := store.CreateCustomer(&models.Customer{
		CustomerName: "Ravi Kumar",
		Email:        "ravi@example.com",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, customer.CustomerID)

	fetched, err := store.GetCustomer(customer.CustomerID)
	assert.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", fetched.CustomerName)

	assert.NoError(t, store.DeleteCustomer(customer.CustomerID))
	err = store.DeleteCustomer(customer.CustomerID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestMemoryStoreCreatePolicyWithCustomer(t *testing.T) {
	store := storage.NewMemoryStore()

	policy := &models.Policy{PolicyType: "Premium Coverage", Duration: "2 Year"}
	customer := &models.Customer{CustomerName: "Anita Sharma"}

	assert.NoError(t, store.CreatePolicyWithCustomer(policy, customer))
	assert.Equal(t, customer.CustomerID, policy.CustomerID)

	policies, customers, err := store.Counts()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), policies)
	assert.Equal(t, int64(1), customers)
}

func TestMemoryStoreCreatePolicyWithCustomerRejectsDuplicatePayment(t *testing.T) {
	store := storage.NewMemoryStore()

	first := &models.Policy{OrderID: "order_d", PaymentID: "pay_d"}
	assert.NoError(t, store.CreatePolicyWithCustomer(first, &models.Customer{CustomerName: "Ravi Kumar"}))

	// A second write for the same (orderID, paymentID) pair must not land
	second := &models.Policy{OrderID: "order_d", PaymentID: "pay_d"}
	err := store.CreatePolicyWithCustomer(second, &models.Customer{CustomerName: "Ravi Kumar"})
	assert.True(t, errors.Is(err, storage.ErrDuplicatePayment))

	policies, customers, _ := store.Counts()
	assert.Equal(t, int64(1), policies)
	assert.Equal(t, int64(1), customers)
}

func TestMemoryStoreReadsReturnCopies(t *testing.T) {
	store := storage.NewMemoryStore()

	created, err := store.CreatePolicy(&models.Policy{
		PolicyType: "Standard Coverage",
		Amount:     1,
	})
	assert.NoError(t, err)

	// Mutating a fetched record must not change the stored one
	all, err := store.GetAllPolicies()
	assert.NoError(t, err)
	all[0].Status = models.PolicyStatusExpired
	all[0].Amount = 999

	stored, err := store.GetPolicy(created.PolicyID)
	assert.NoError(t, err)
	assert.Equal(t, models.PolicyStatusActive, stored.Status)
	assert.Equal(t, float64(1), stored.Amount)

	customer, err := store.CreateCustomer(&models.Customer{CustomerName: "Ravi Kumar"})
	assert.NoError(t, err)

	fetched, err := store.GetCustomer(customer.CustomerID)
	assert.NoError(t, err)
	fetched.CustomerName = "changed"

	again, err := store.GetCustomer(customer.CustomerID)
	assert.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", again.CustomerName)
}

func TestMemoryStoreDeleteCustomerDoesNotCascade(t *testing.T) {
	store := storage.NewMemoryStore()

	policy := &models.Policy{}
	customer := &models.Customer{CustomerName: "Orphaned"}
	assert.NoError(t, store.CreatePolicyWithCustomer(policy, customer))

	assert.NoError(t, store.DeleteCustomer(customer.CustomerID))

	remaining, err := store.GetPolicy(policy.PolicyID)
	assert.NoError(t, err)
	assert.Equal(t, customer.CustomerID, remaining.CustomerID)
}
