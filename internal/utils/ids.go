package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateID generates a secure random ID for policies/customers,
// e.g. "POL1756500000123456"
func GenerateID(prefix string) string {
	// Generate a random 6-digit number
	max := big.NewInt(999999)
	n, _ := rand.Int(rand.Reader, max)

	// Use timestamp + random for uniqueness
	return fmt.Sprintf("%s%d%06d", prefix, time.Now().Unix(), n.Int64())
}

// GeneratePolicyNumber generates a certificate number in the format
// RSA-<yyMMddHHmmss>-<rand3>
func GeneratePolicyNumber(now time.Time) string {
	max := big.NewInt(1000)
	n, _ := rand.Int(rand.Reader, max)

	return fmt.Sprintf("RSA-%s-%03d", now.Format("060102150405"), n.Int64())
}
