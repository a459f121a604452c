package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
)

// DatabaseStore persists policies and customers via GORM/PostgreSQL
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Policy operations

func (d *DatabaseStore) CreatePolicy(policy *models.Policy) (*models.Policy, error) {
	if err := d.db.Create(policy).Error; err != nil {
		return nil, fmt.Errorf("failed to create policy: %w", err)
	}
	return policy, nil
}

func (d *DatabaseStore) GetPolicy(id string) (*models.Policy, error) {
	var policy models.Policy
	err := d.db.Where("policy_id = ? OR policy_number = ?", id, id).First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("policy %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (d *DatabaseStore) GetPolicyByPayment(orderID, paymentID string) (*models.Policy, error) {
	var policy models.Policy
	err := d.db.Where("order_id = ? AND payment_id = ?", orderID, paymentID).First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("payment %s/%s: %w", orderID, paymentID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (d *DatabaseStore) GetAllPolicies() ([]*models.Policy, error) {
	var policies []*models.Policy
	if err := d.db.Order("created_at DESC").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

func (d *DatabaseStore) UpdatePolicy(policy *models.Policy) error {
	// Map form, not struct form: struct updates skip zero values, and an
	// admin clearing a field to 0 must persist
	result := d.db.Model(&models.Policy{}).Where("policy_id = ?", policy.PolicyID).Updates(map[string]interface{}{
		"policy_type":    policy.PolicyType,
		"amount":         policy.Amount,
		"original_price": policy.OriginalPrice,
		"duration":       policy.Duration,
		"start_date":     policy.StartDate,
		"expiry_date":    policy.ExpiryDate,
		"status":         policy.Status,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("policy %s: %w", policy.PolicyID, ErrNotFound)
	}
	return nil
}

func (d *DatabaseStore) DeletePolicy(id string) error {
	result := d.db.Where("policy_id = ?", id).Delete(&models.Policy{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("policy %s: %w", id, ErrNotFound)
	}
	return nil
}

// Customer operations

func (d *DatabaseStore) CreateCustomer(customer *models.Customer) (*models.Customer, error) {
	if err := d.db.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (d *DatabaseStore) GetCustomer(id string) (*models.Customer, error) {
	var customer models.Customer
	err := d.db.Where("customer_id = ?", id).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (d *DatabaseStore) GetAllCustomers() ([]*models.Customer, error) {
	var customers []*models.Customer
	if err := d.db.Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (d *DatabaseStore) UpdateCustomer(customer *models.Customer) error {
	result := d.db.Model(&models.Customer{}).Where("customer_id = ?", customer.CustomerID).Updates(map[string]interface{}{
		"customer_name":  customer.CustomerName,
		"email":          customer.Email,
		"phone_number":   customer.PhoneNumber,
		"address":        customer.Address,
		"city":           customer.City,
		"vehicle_number": customer.VehicleNumber,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer %s: %w", customer.CustomerID, ErrNotFound)
	}
	return nil
}

func (d *DatabaseStore) DeleteCustomer(id string) error {
	// No cascade: policies keep their customerId reference
	result := d.db.Where("customer_id = ?", id).Delete(&models.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreatePolicyWithCustomer runs both creates in one transaction so a
// failed policy write never leaves an orphan customer behind
func (d *DatabaseStore) CreatePolicyWithCustomer(policy *models.Policy, customer *models.Customer) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		policy.CustomerID = customer.CustomerID
		if err := tx.Create(policy).Error; err != nil {
			// idx_policies_payment: a concurrent delivery of the same
			// callback won the race
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("payment %s/%s: %w", policy.OrderID, policy.PaymentID, ErrDuplicatePayment)
			}
			return fmt.Errorf("failed to create policy: %w", err)
		}
		return nil
	})
}

func (d *DatabaseStore) Counts() (int64, int64, error) {
	var policies, customers int64
	if err := d.db.Model(&models.Policy{}).Count(&policies).Error; err != nil {
		return 0, 0, err
	}
	if err := d.db.Model(&models.Customer{}).Count(&customers).Error; err != nil {
		return 0, 0, err
	}
	return policies, customers, nil
}
