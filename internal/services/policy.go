package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/payment"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

var (
	// ErrInvalidSignature means the callback's signature did not match the
	// recomputed HMAC; nothing is written in that case
	ErrInvalidSignature = errors.New("invalid payment signature")
)

// PolicyService materializes policies from verified payments
type PolicyService struct {
	store        storage.Store
	keySecret    string
	emailService *EmailService
}

// NewPolicyService creates a new policy service. emailService may be nil
// when email is not configured.
func NewPolicyService(store storage.Store, keySecret string, emailService *EmailService) *PolicyService {
	return &PolicyService{
		store:        store,
		keySecret:    keySecret,
		emailService: emailService,
	}
}

// VerifyAndSave checks the gateway signature and, on success, writes the
// customer and policy records. Delivering the same callback twice returns
// the already-created records instead of writing duplicates.
func (s *PolicyService) VerifyAndSave(req *models.VerifyRequest) (*models.PaymentResult, error) {
	if !payment.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, s.keySecret) {
		log.Printf("Signature mismatch for order %s", req.RazorpayOrderID)
		return nil, ErrInvalidSignature
	}

	// Dedup on orderId+paymentId: a double-click or a repeated gateway
	// callback must not create a second policy
	if existing, err := s.store.GetPolicyByPayment(req.RazorpayOrderID, req.RazorpayPaymentID); err == nil {
		log.Printf("Payment %s already materialized as policy %s", req.RazorpayPaymentID, existing.PolicyID)
		return s.existingResult(existing)
	}

	customer := &models.Customer{
		CustomerName:  req.CustomerData.CustomerName,
		Email:         req.CustomerData.Email,
		PhoneNumber:   req.CustomerData.PhoneNumber,
		Address:       req.CustomerData.Address,
		City:          req.CustomerData.City,
		VehicleNumber: req.CustomerData.VehicleNumber,
	}

	policy := buildPolicy(&req.PolicyData, req.RazorpayOrderID, req.RazorpayPaymentID)

	if err := s.store.CreatePolicyWithCustomer(policy, customer); err != nil {
		// Lost a race against a concurrent delivery of the same callback;
		// the winner's records are the caller's answer
		if errors.Is(err, storage.ErrDuplicatePayment) {
			log.Printf("Payment %s written concurrently, returning existing policy", req.RazorpayPaymentID)
			existing, lookupErr := s.store.GetPolicyByPayment(req.RazorpayOrderID, req.RazorpayPaymentID)
			if lookupErr != nil {
				return nil, fmt.Errorf("failed to load policy for duplicate payment %s: %w", req.RazorpayPaymentID, lookupErr)
			}
			return s.existingResult(existing)
		}
		return nil, fmt.Errorf("failed to save verified payment: %w", err)
	}

	log.Printf("Payment %s verified, policy %s created for customer %s",
		req.RazorpayPaymentID, policy.PolicyNumber, customer.CustomerID)

	if s.emailService != nil {
		go s.emailService.SendPolicyConfirmation(policy, customer)
	}

	return &models.PaymentResult{
		PolicyID:   policy.PolicyID,
		CustomerID: customer.CustomerID,
		Policy:     policy,
		Customer:   customer,
	}, nil
}

// existingResult loads the customer of an already-materialized policy and
// wraps both as the verify-and-save result
func (s *PolicyService) existingResult(policy *models.Policy) (*models.PaymentResult, error) {
	customer, err := s.store.GetCustomer(policy.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer for policy %s: %w", policy.PolicyID, err)
	}
	return &models.PaymentResult{
		PolicyID:   policy.PolicyID,
		CustomerID: customer.CustomerID,
		Policy:     policy,
		Customer:   customer,
	}, nil
}

// buildPolicy turns the client-supplied policy fields into a Policy.
// The expiry date is always recomputed server-side from start + duration,
// and missing policy numbers and dates are generated here.
func buildPolicy(in *models.PolicyInput, orderID, paymentID string) *models.Policy {
	start := time.Now()
	if in.StartDate != "" {
		if parsed, err := time.Parse("2006-01-02", in.StartDate); err == nil {
			start = parsed
		} else {
			log.Printf("Unparseable start date %q, using today", in.StartDate)
		}
	}

	policy := &models.Policy{
		PolicyNumber:  in.PolicyNumber,
		PolicyType:    in.PolicyType,
		Amount:        in.Amount,
		OriginalPrice: in.OriginalPrice,
		Duration:      in.Duration,
		StartDate:     start,
		Status:        models.PolicyStatusActive,
		OrderID:       orderID,
		PaymentID:     paymentID,
	}
	if policy.OriginalPrice == 0 {
		policy.OriginalPrice = policy.Amount
	}
	policy.ExpiryDate = policy.ComputeExpiry(start)
	return policy
}
