package utils

import (
	"math"
	"strings"
)

var wordsOnes = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six",
	"Seven", "Eight", "Nine", "Ten", "Eleven", "Twelve",
	"Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen",
	"Eighteen", "Nineteen",
}

var wordsTens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty",
	"Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords converts a rupee amount to words using Indian short-scale
// numbering (Crore/Lakh/Thousand/Hundred), e.g. 4499 ->
// "Four Thousand Four Hundred and Ninety Nine Only".
// Negative or NaN input yields "Invalid Amount"; amounts of a billion
// rupees or more yield "Overflow".
func AmountInWords(amount float64) string {
	if math.IsNaN(amount) || amount < 0 {
		return "Invalid Amount"
	}

	n := int64(math.Floor(amount))
	if n == 0 {
		return "Zero Only"
	}
	if n >= 1_000_000_000 {
		return "Overflow"
	}

	crore := n / 10_000_000
	lakh := (n / 100_000) % 100
	thousand := (n / 1_000) % 100
	hundred := (n / 100) % 10
	last := n % 100

	var b strings.Builder
	if crore > 0 {
		b.WriteString(twoDigitWords(crore) + " Crore ")
	}
	if lakh > 0 {
		b.WriteString(twoDigitWords(lakh) + " Lakh ")
	}
	if thousand > 0 {
		b.WriteString(twoDigitWords(thousand) + " Thousand ")
	}
	if hundred > 0 {
		b.WriteString(wordsOnes[hundred] + " Hundred ")
	}
	if last > 0 {
		if b.Len() > 0 {
			b.WriteString("and ")
		}
		b.WriteString(twoDigitWords(last) + " ")
	}

	return strings.TrimSpace(b.String()) + " Only"
}

func twoDigitWords(n int64) string {
	if n < 20 {
		return wordsOnes[n]
	}
	if n%10 == 0 {
		return wordsTens[n/10]
	}
	return wordsTens[n/10] + " " + wordsOnes[n%10]
}
