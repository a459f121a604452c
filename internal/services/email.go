package services

import (
	"fmt"
	"log"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/kalyan-enterprises/rsa-backend/internal/config"
	"github.com/kalyan-enterprises/rsa-backend/internal/models"
)

// EmailService sends the two transactional mails of the purchase flow:
// the customer receipt and the admin notification
type EmailService struct {
	dialer      *gomail.Dialer
	from        string
	adminEmail  string
	companyName string
}

// NewEmailService creates an email service from SMTP config. Returns nil
// when SMTP is not configured; the payment flow treats a nil service as
// "email disabled".
func NewEmailService(smtp config.SMTPConfig, companyName string) *EmailService {
	if !smtp.Enabled() {
		log.Println("SMTP not configured - confirmation emails disabled")
		return nil
	}

	return &EmailService{
		dialer:      gomail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Password),
		from:        smtp.From,
		adminEmail:  smtp.AdminEmail,
		companyName: companyName,
	}
}

// SendPolicyConfirmation sends the customer receipt and the admin
// notification for a freshly created policy. Failures are logged, never
// propagated: email must not fail a verified payment.
func (s *EmailService) SendPolicyConfirmation(policy *models.Policy, customer *models.Customer) {
	params := TemplateParams(policy, customer)

	if !validEmail(customer.Email) {
		log.Printf("Customer email missing or invalid for policy %s, receipt not sent", policy.PolicyNumber)
	} else if err := s.send(customer.Email, s.customerSubject(params), s.customerBody(params)); err != nil {
		log.Printf("Failed to send customer email for policy %s: %v", policy.PolicyNumber, err)
	} else {
		log.Printf("Customer receipt sent to %s for policy %s", customer.Email, policy.PolicyNumber)
	}

	if s.adminEmail == "" {
		return
	}
	if err := s.send(s.adminEmail, s.adminSubject(params), s.adminBody(params)); err != nil {
		log.Printf("Failed to send admin notification for policy %s: %v", policy.PolicyNumber, err)
	} else {
		log.Printf("Admin notification sent for policy %s", policy.PolicyNumber)
	}
}

// TemplateParams maps stored fields into mail template variables, the
// same set both templates consume
func TemplateParams(policy *models.Policy, customer *models.Customer) map[string]string {
	name := customer.CustomerName
	if name == "" {
		name = "Customer"
	}
	policyType := policy.PolicyType
	if policyType == "" {
		policyType = "RSA Policy"
	}
	policyID := policy.PolicyNumber
	if policyID == "" {
		policyID = policy.PolicyID
	}

	return map[string]string{
		"customerName": name,
		"policyType":   policyType,
		"policyId":     policyID,
		"expiryDate":   policy.ExpiryDate.Format("02/01/2006"),
		"amount":       fmt.Sprintf("%.2f", policy.Amount),
		"email":        customer.Email,
	}
}

func (s *EmailService) customerSubject(p map[string]string) string {
	return fmt.Sprintf("Your %s is confirmed - %s", p["policyType"], p["policyId"])
}

func (s *EmailService) customerBody(p map[string]string) string {
	return fmt.Sprintf(`Dear %s,

Thank you for purchasing %s from %s.

Policy Number: %s
Amount Paid: Rs. %s
Valid Till: %s

Your policy certificate is attached to your account and can be downloaded
from the confirmation page.

Regards,
%s`, p["customerName"], p["policyType"], s.companyName, p["policyId"], p["amount"], p["expiryDate"], s.companyName)
}

func (s *EmailService) adminSubject(p map[string]string) string {
	return fmt.Sprintf("New policy sold: %s (%s)", p["policyId"], p["policyType"])
}

func (s *EmailService) adminBody(p map[string]string) string {
	return fmt.Sprintf(`A new policy has been sold.

Customer: %s
Policy Type: %s
Policy Number: %s
Amount: Rs. %s
Expires: %s`, p["customerName"], p["policyType"], p["policyId"], p["amount"], p["expiryDate"])
}

// SendExpiryReminder tells the customer their policy is about to lapse
func (s *EmailService) SendExpiryReminder(policy *models.Policy, customer *models.Customer) {
	if !validEmail(customer.Email) {
		log.Printf("Customer email missing for expiring policy %s, reminder not sent", policy.PolicyNumber)
		return
	}

	p := TemplateParams(policy, customer)
	subject := fmt.Sprintf("Your %s expires on %s", p["policyType"], p["expiryDate"])
	body := fmt.Sprintf(`Dear %s,

Your policy %s (%s) will expire on %s.

Renew before the expiry date to keep your roadside assistance active.

Regards,
%s`, p["customerName"], p["policyId"], p["policyType"], p["expiryDate"], s.companyName)

	if err := s.send(customer.Email, subject, body); err != nil {
		log.Printf("Failed to send expiry reminder for policy %s: %v", policy.PolicyNumber, err)
		return
	}
	log.Printf("Expiry reminder sent for policy %s", policy.PolicyNumber)
}

func (s *EmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && email != "NA" && email != "undefined" && strings.Contains(email, "@")
}
