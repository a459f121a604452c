package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/utils"
)

// CertificateService renders policy certificates as PDF
type CertificateService struct {
	companyName string
}

// NewCertificateService creates a certificate renderer
func NewCertificateService(companyName string) *CertificateService {
	return &CertificateService{companyName: companyName}
}

var certificateFeatures = [][]string{
	{"1", "24/7 Roadside Assistance", "Yes"},
	{"2", "Nation Wide Towing", "Yes"},
	{"3", "Flat Tire Assistance", "Yes"},
	{"4", "Fuel Delivery", "Yes"},
	{"5", "Battery Jump Start", "Yes"},
}

// Render produces the certificate PDF for a policy and its customer
func (s *CertificateService) Render(policy *models.Policy, customer *models.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(0, 51, 153)
	pdf.Rect(0, 0, 210, 15, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(0, 4)
	pdf.CellFormat(210, 8, s.companyName, "", 1, "C", false, 0, "")
	pdf.SetY(20)

	// Certificate window
	s.tableHeader(pdf, []string{"Certificate Start Date", "Certificate End Date", "Vehicle Registration Number"}, 26, 188, 156)
	s.tableRow(pdf, []string{
		policy.StartDate.Format("02/01/2006"),
		policy.ExpiryDate.Format("02/01/2006"),
		orNA(customer.VehicleNumber),
	})
	pdf.Ln(6)

	// Personal details
	s.sectionHeader(pdf, "PERSONAL DETAILS")
	s.detailRow(pdf, "Customer Name", orNA(customer.CustomerName))
	s.detailRow(pdf, "Mobile No", orNA(customer.PhoneNumber))
	s.detailRow(pdf, "Email", orNA(customer.Email))
	s.detailRow(pdf, "Address", fmt.Sprintf("%s, %s", orNA(customer.Address), customer.City))
	pdf.Ln(6)

	// Payment details
	amount := fmt.Sprintf("Rs. %.2f", policy.Amount)
	s.sectionHeader(pdf, "PAYMENT DETAILS")
	s.detailRow(pdf, "Plan Amount", amount)
	s.detailRow(pdf, "Total Amount Paid", amount)
	s.detailRow(pdf, "Amount In Words", utils.AmountInWords(policy.Amount))
	pdf.Ln(6)

	// Service features
	s.tableHeader(pdf, []string{"S.No", "Service Features", "Included"}, 0, 51, 153)
	for _, row := range certificateFeatures {
		s.featureRow(pdf, row)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 5, "Note: This is a computer-generated policy document and does not require a signature.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *CertificateService) tableHeader(pdf *gofpdf.Fpdf, cols []string, r, g, b int) {
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	w := 190.0 / float64(len(cols))
	for _, col := range cols {
		pdf.CellFormat(w, 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func (s *CertificateService) tableRow(pdf *gofpdf.Fpdf, cols []string) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	w := 190.0 / float64(len(cols))
	for _, col := range cols {
		pdf.CellFormat(w, 8, col, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

func (s *CertificateService) sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFillColor(0, 51, 153)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(190, 8, title, "1", 1, "L", true, 0, "")
}

func (s *CertificateService) detailRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(60, 8, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(130, 8, value, "1", 1, "L", false, 0, "")
}

func (s *CertificateService) featureRow(pdf *gofpdf.Fpdf, row []string) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	widths := []float64{20, 130, 40}
	for i, col := range row {
		pdf.CellFormat(widths[i], 7, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
