package service

import (
	"bytes"
	"strings"

	"github.com/faarish/invoicing-api/internal/domain/entity"
	"github.com/jung-kurt/gofpdf/v2"
)

// PDFService renders invoices as printable A4 documents.
type PDFService struct{}

// NewPDFService creates a new PDF service
func NewPDFService() *PDFService {
	return &PDFService{}
}

// Render produces the PDF bytes for an invoice. Amounts are shown in
// Maldivian Rufiyaa with two-decimal grouping.
func (s *PDFService) Render(invoice *entity.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 12, "INVOICE", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(190, 6, invoice.InvoiceNumber, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Company block on the left, dates on the right
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 6, invoice.CompanyName, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, "Date: "+invoice.Date, "", 1, "R", false, 0, "")
	addressY := pdf.GetY()
	pdf.MultiCell(95, 5, invoice.CompanyAddress, "", "L", false)
	afterAddress := pdf.GetY()
	pdf.SetXY(105, addressY)
	pdf.CellFormat(95, 6, "Due: "+invoice.DueDate, "", 1, "R", false, 0, "")
	if pdf.GetY() < afterAddress {
		pdf.SetY(afterAddress)
	}
	pdf.Ln(4)

	// Bill To / Deliver To
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 7, "Bill To", "1", 0, "L", true, 0, "")
	pdf.CellFormat(95, 7, "Deliver To", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	partyY := pdf.GetY()
	pdf.MultiCell(95, 5, invoice.BillTo, "1", "L", false)
	billBottom := pdf.GetY()
	pdf.SetXY(105, partyY)
	pdf.MultiCell(95, 5, invoice.DeliverTo, "1", "L", false)
	if pdf.GetY() < billBottom {
		pdf.SetY(billBottom)
	}
	pdf.Ln(4)

	// Line item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(90, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range invoice.Items {
		desc := item.Type
		if len(desc) > 48 {
			desc = desc[:45] + "..."
		}
		amount := item.Qty.Mul(item.Rate)
		pdf.CellFormat(90, 6, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, item.Qty.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, item.Rate.Format(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, amount.Format(), "1", 1, "R", false, 0, "")
	}

	// Totals
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(150, 7, "Subtotal", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "MVR "+invoice.Subtotal.Format(), "1", 1, "R", false, 0, "")
	pdf.CellFormat(150, 7, "Discount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "MVR "+invoice.Discount.Format(), "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(150, 8, "Total Due", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "MVR "+invoice.Total.Format(), "1", 1, "R", true, 0, "")
	pdf.Ln(5)

	// Notes and bank details
	if strings.TrimSpace(invoice.Notes) != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 4.5, invoice.Notes, "", "L", false)
		pdf.Ln(3)
	}
	if strings.TrimSpace(invoice.BankDetails) != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 6, "Bank Details", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 4.5, invoice.BankDetails, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
