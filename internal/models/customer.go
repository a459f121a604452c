package models

import (
	"strings"

	"gorm.io/gorm"

	"github.com/kalyan-enterprises/rsa-backend/internal/utils"
)

// Customer represents a policy holder
type Customer struct {
	gorm.Model

	CustomerID    string `json:"id" gorm:"uniqueIndex"` // Public string ID used in API routes
	CustomerName  string `json:"customerName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	Address       string `json:"address"`
	City          string `json:"city"`
	VehicleNumber string `json:"vehicleNumber" gorm:"index"`
}

// BeforeCreate hook to auto-generate CustomerID and normalize data
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.CustomerID == "" {
		c.CustomerID = utils.GenerateID("CUS")
	}
	c.Normalize()
	return nil
}

// Normalize cleans up the vehicle number (remove spaces, uppercase) and
// ensures the phone number carries the +91 country code
func (c *Customer) Normalize() {
	c.VehicleNumber = strings.ToUpper(strings.ReplaceAll(c.VehicleNumber, " ", ""))

	if c.PhoneNumber != "" && !strings.HasPrefix(c.PhoneNumber, "+") {
		c.PhoneNumber = "+91" + strings.TrimPrefix(c.PhoneNumber, "91")
	}
}

// MatchesSearch reports whether the free-text query matches the customer's
// name, email, phone, city or vehicle number (case-insensitive)
func (c *Customer) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.CustomerName), q) ||
		strings.Contains(strings.ToLower(c.Email), q) ||
		strings.Contains(strings.ToLower(c.PhoneNumber), q) ||
		strings.Contains(strings.ToLower(c.City), q) ||
		strings.Contains(strings.ToLower(c.VehicleNumber), q)
}
