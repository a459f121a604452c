package storage

import (
	"errors"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
)

// ErrNotFound is returned when a policy or customer does not exist
var ErrNotFound = errors.New("record not found")

// ErrDuplicatePayment is returned when a policy already exists for the
// (orderID, paymentID) pair
var ErrDuplicatePayment = errors.New("payment already materialized")

// Store defines the interface for storage operations
type Store interface {
	// Policy operations
	CreatePolicy(policy *models.Policy) (*models.Policy, error)
	GetPolicy(id string) (*models.Policy, error)
	GetPolicyByPayment(orderID, paymentID string) (*models.Policy, error)
	GetAllPolicies() ([]*models.Policy, error)
	UpdatePolicy(policy *models.Policy) error
	DeletePolicy(id string) error

	// Customer operations
	CreateCustomer(customer *models.Customer) (*models.Customer, error)
	GetCustomer(id string) (*models.Customer, error)
	GetAllCustomers() ([]*models.Customer, error)
	UpdateCustomer(customer *models.Customer) error
	DeleteCustomer(id string) error

	// CreatePolicyWithCustomer writes both records of a verified payment,
	// either fully or not at all
	CreatePolicyWithCustomer(policy *models.Policy, customer *models.Customer) error

	// Counts returns record totals for health reporting
	Counts() (policies, customers int64, err error)
}
