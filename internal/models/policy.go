package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kalyan-enterprises/rsa-backend/internal/utils"
)

// Policy represents an RSA coverage record sold to a customer
type Policy struct {
	// Using gorm.Model gives us ID (uint), CreatedAt, UpdatedAt, DeletedAt automatically
	gorm.Model

	PolicyID     string `json:"id" gorm:"uniqueIndex"`           // Public string ID used in API routes
	PolicyNumber string `json:"policyNumber" gorm:"uniqueIndex"` // Format: RSA-<yyMMddHHmmss>-<rand3>

	PolicyType    string  `json:"policyType"` // e.g. "Standard Coverage", "Premium Coverage"
	Amount        float64 `json:"amount"`     // Price paid (major units, INR)
	OriginalPrice float64 `json:"originalPrice"`
	Duration      string  `json:"duration"` // e.g. "1 Year", "2 Year", "3 Year"

	StartDate  time.Time `json:"startDate"`
	ExpiryDate time.Time `json:"expiryDate"` // StartDate + N years, N from Duration

	// Derived from ExpiryDate vs now; stored value refreshed on read
	Status string `json:"status"`

	CustomerID string `json:"customerId" gorm:"index"` // References Customer.CustomerID
	PaymentID  string `json:"paymentId" gorm:"index:idx_policies_payment,unique"`
	OrderID    string `json:"orderId" gorm:"index:idx_policies_payment,unique"`
}

// Policy status constants
const (
	PolicyStatusActive       = "Active"
	PolicyStatusExpiringSoon = "Expiring Soon"
	PolicyStatusExpired      = "Expired"
)

// ExpiringSoonDays is the window before expiry in which a policy
// counts as "Expiring Soon"
const ExpiringSoonDays = 30

// BeforeCreate hook to auto-generate IDs and enforce the expiry invariant
func (p *Policy) BeforeCreate(tx *gorm.DB) error {
	if p.PolicyID == "" {
		p.PolicyID = utils.GenerateID("POL")
	}
	if p.PolicyNumber == "" {
		p.PolicyNumber = utils.GeneratePolicyNumber(time.Now())
	}
	if p.StartDate.IsZero() {
		p.StartDate = time.Now()
	}
	if p.ExpiryDate.IsZero() {
		p.ExpiryDate = p.StartDate.AddDate(p.DurationYears(), 0, 0)
	}
	if p.Status == "" {
		p.Status = PolicyStatusActive
	}
	return nil
}

// DurationYears parses the leading integer out of the duration string.
// "2 Year" -> 2. Unparseable durations default to 1.
func (p *Policy) DurationYears() int {
	return ParseDurationYears(p.Duration)
}

// ComputeExpiry returns start + N years for this policy's duration
func (p *Policy) ComputeExpiry(start time.Time) time.Time {
	return start.AddDate(p.DurationYears(), 0, 0)
}

// StatusAt derives the policy status from the expiry date:
// past -> Expired, within 30 days -> Expiring Soon, otherwise Active
func (p *Policy) StatusAt(now time.Time) string {
	if p.ExpiryDate.Before(now) {
		return PolicyStatusExpired
	}
	if p.ExpiryDate.Sub(now) <= ExpiringSoonDays*24*time.Hour {
		return PolicyStatusExpiringSoon
	}
	return PolicyStatusActive
}

// RefreshStatus recomputes the stored status against the current time
func (p *Policy) RefreshStatus() {
	p.Status = p.StatusAt(time.Now())
}

// MatchesSearch reports whether the free-text query matches the policy's
// number, type or linked customer id (case-insensitive)
func (p *Policy) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.PolicyNumber), q) ||
		strings.Contains(strings.ToLower(p.PolicyType), q) ||
		strings.Contains(strings.ToLower(p.CustomerID), q)
}

// ParseDurationYears extracts the leading integer from a duration string
// like "3 Year". Anything unparseable counts as 1 year.
func ParseDurationYears(duration string) int {
	fields := strings.Fields(duration)
	if len(fields) == 0 {
		return 1
	}
	years, err := strconv.Atoi(fields[0])
	if err != nil || years < 1 {
		return 1
	}
	return years
}
