package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/utils"
)

// MemoryStore holds all data in memory for tests and local development
type MemoryStore struct {
	policies  map[string]*models.Policy
	customers map[string]*models.Customer

	// Mutexes for thread safety
	policyMu   sync.RWMutex
	customerMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		policies:  make(map[string]*models.Policy),
		customers: make(map[string]*models.Customer),
	}
}

// preparePolicy fills generated fields the way the GORM BeforeCreate hook
// would for the database store
func preparePolicy(policy *models.Policy) {
	now := time.Now()
	if policy.PolicyID == "" {
		policy.PolicyID = utils.GenerateID("POL")
	}
	if policy.PolicyNumber == "" {
		policy.PolicyNumber = utils.GeneratePolicyNumber(now)
	}
	if policy.StartDate.IsZero() {
		policy.StartDate = now
	}
	if policy.ExpiryDate.IsZero() {
		policy.ExpiryDate = policy.ComputeExpiry(policy.StartDate)
	}
	if policy.Status == "" {
		policy.Status = models.PolicyStatusActive
	}
	policy.CreatedAt = now
	policy.UpdatedAt = now
}

func copyPolicy(policy *models.Policy) *models.Policy {
	c := *policy
	return &c
}

func copyCustomer(customer *models.Customer) *models.Customer {
	c := *customer
	return &c
}

func prepareCustomer(customer *models.Customer) {
	now := time.Now()
	if customer.CustomerID == "" {
		customer.CustomerID = utils.GenerateID("CUS")
	}
	customer.Normalize()
	customer.CreatedAt = now
	customer.UpdatedAt = now
}

// Policy operations

func (m *MemoryStore) CreatePolicy(policy *models.Policy) (*models.Policy, error) {
	m.policyMu.Lock()
	defer m.policyMu.Unlock()

	preparePolicy(policy)
	stored := *policy
	m.policies[policy.PolicyID] = &stored
	return policy, nil
}

func (m *MemoryStore) GetPolicy(id string) (*models.Policy, error) {
	m.policyMu.RLock()
	defer m.policyMu.RUnlock()

	// Lookup by public ID or by policy number, like the admin views allow
	if policy, exists := m.policies[id]; exists {
		return copyPolicy(policy), nil
	}
	for _, policy := range m.policies {
		if policy.PolicyNumber == id {
			return copyPolicy(policy), nil
		}
	}
	return nil, fmt.Errorf("policy %s: %w", id, ErrNotFound)
}

func (m *MemoryStore) GetPolicyByPayment(orderID, paymentID string) (*models.Policy, error) {
	m.policyMu.RLock()
	defer m.policyMu.RUnlock()

	for _, policy := range m.policies {
		if policy.OrderID == orderID && policy.PaymentID == paymentID {
			return copyPolicy(policy), nil
		}
	}
	return nil, fmt.Errorf("payment %s/%s: %w", orderID, paymentID, ErrNotFound)
}

func (m *MemoryStore) GetAllPolicies() ([]*models.Policy, error) {
	m.policyMu.RLock()
	defer m.policyMu.RUnlock()

	// Copies, so callers deriving status never write into the store
	policies := make([]*models.Policy, 0, len(m.policies))
	for _, policy := range m.policies {
		policies = append(policies, copyPolicy(policy))
	}
	// Newest first
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].CreatedAt.After(policies[j].CreatedAt)
	})
	return policies, nil
}

func (m *MemoryStore) UpdatePolicy(policy *models.Policy) error {
	m.policyMu.Lock()
	defer m.policyMu.Unlock()

	if _, exists := m.policies[policy.PolicyID]; !exists {
		return fmt.Errorf("policy %s: %w", policy.PolicyID, ErrNotFound)
	}
	policy.UpdatedAt = time.Now()
	stored := *policy
	m.policies[policy.PolicyID] = &stored
	return nil
}

func (m *MemoryStore) DeletePolicy(id string) error {
	m.policyMu.Lock()
	defer m.policyMu.Unlock()

	if _, exists := m.policies[id]; !exists {
		return fmt.Errorf("policy %s: %w", id, ErrNotFound)
	}
	delete(m.policies, id)
	return nil
}

// Customer operations

func (m *MemoryStore) CreateCustomer(customer *models.Customer) (*models.Customer, error) {
	m.customerMu.Lock()
	defer m.customerMu.Unlock()

	prepareCustomer(customer)
	stored := *customer
	m.customers[customer.CustomerID] = &stored
	return customer, nil
}

func (m *MemoryStore) GetCustomer(id string) (*models.Customer, error) {
	m.customerMu.RLock()
	defer m.customerMu.RUnlock()

	customer, exists := m.customers[id]
	if !exists {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return copyCustomer(customer), nil
}

func (m *MemoryStore) GetAllCustomers() ([]*models.Customer, error) {
	m.customerMu.RLock()
	defer m.customerMu.RUnlock()

	customers := make([]*models.Customer, 0, len(m.customers))
	for _, customer := range m.customers {
		customers = append(customers, copyCustomer(customer))
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CreatedAt.After(customers[j].CreatedAt)
	})
	return customers, nil
}

func (m *MemoryStore) UpdateCustomer(customer *models.Customer) error {
	m.customerMu.Lock()
	defer m.customerMu.Unlock()

	if _, exists := m.customers[customer.CustomerID]; !exists {
		return fmt.Errorf("customer %s: %w", customer.CustomerID, ErrNotFound)
	}
	customer.UpdatedAt = time.Now()
	stored := *customer
	m.customers[customer.CustomerID] = &stored
	return nil
}

func (m *MemoryStore) DeleteCustomer(id string) error {
	m.customerMu.Lock()
	defer m.customerMu.Unlock()

	if _, exists := m.customers[id]; !exists {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	// No cascade: the customer's policies keep their customerId reference
	delete(m.customers, id)
	return nil
}

// CreatePolicyWithCustomer writes both records under the locks so a reader
// never observes the customer without its policy
func (m *MemoryStore) CreatePolicyWithCustomer(policy *models.Policy, customer *models.Customer) error {
	m.customerMu.Lock()
	defer m.customerMu.Unlock()
	m.policyMu.Lock()
	defer m.policyMu.Unlock()

	// Same uniqueness the database enforces with idx_policies_payment:
	// concurrent deliveries of one callback must not both write
	for _, existing := range m.policies {
		if existing.OrderID == policy.OrderID && existing.PaymentID == policy.PaymentID {
			return fmt.Errorf("payment %s/%s: %w", policy.OrderID, policy.PaymentID, ErrDuplicatePayment)
		}
	}

	prepareCustomer(customer)
	policy.CustomerID = customer.CustomerID
	preparePolicy(policy)

	storedCustomer := *customer
	storedPolicy := *policy
	m.customers[customer.CustomerID] = &storedCustomer
	m.policies[policy.PolicyID] = &storedPolicy
	return nil
}

func (m *MemoryStore) Counts() (int64, int64, error) {
	m.policyMu.RLock()
	policies := int64(len(m.policies))
	m.policyMu.RUnlock()

	m.customerMu.RLock()
	customers := int64(len(m.customers))
	m.customerMu.RUnlock()

	return policies, customers, nil
}
