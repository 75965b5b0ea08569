package handler

import (
	"net/http"

	"github.com/faarish/invoicing-api/internal/application/service"
	"github.com/faarish/invoicing-api/internal/domain/entity"
	"github.com/faarish/invoicing-api/internal/presentation/http/dto/response"
	"github.com/faarish/invoicing-api/pkg/archive"
	"github.com/faarish/invoicing-api/pkg/money"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService   *service.InvoiceService
	numberingService *service.NumberingService
	pdfService       *service.PDFService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	invoiceService *service.InvoiceService,
	numberingService *service.NumberingService,
	pdfService *service.PDFService,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:   invoiceService,
		numberingService: numberingService,
		pdfService:       pdfService,
	}
}

// InvoiceRequest represents the create/update invoice request body.
// Field names match the browser client's wire format.
type InvoiceRequest struct {
	InvoiceNumber  string            `json:"invoiceNumber"`
	Date           string            `json:"date"`
	DueDate        string            `json:"dueDate"`
	CompanyName    string            `json:"companyName"`
	CompanyAddress string            `json:"companyAddress"`
	BillTo         string            `json:"billTo"`
	DeliverTo      string            `json:"deliverTo"`
	Notes          string            `json:"notes"`
	BankDetails    string            `json:"bankDetails"`
	Discount       money.Amount      `json:"discount"`
	Items          []LineItemRequest `json:"items"`
}

// LineItemRequest represents a line item in the request
type LineItemRequest struct {
	Type string       `json:"type"`
	Qty  money.Amount `json:"qty"`
	Rate money.Amount `json:"rate"`
}

func (r *InvoiceRequest) toInput() *service.InvoiceInput {
	items := make(entity.LineItems, len(r.Items))
	for i, item := range r.Items {
		items[i] = entity.LineItem{
			Type: item.Type,
			Qty:  item.Qty,
			Rate: item.Rate,
		}
	}
	return &service.InvoiceInput{
		InvoiceNumber:  r.InvoiceNumber,
		Date:           r.Date,
		DueDate:        r.DueDate,
		CompanyName:    r.CompanyName,
		CompanyAddress: r.CompanyAddress,
		BillTo:         r.BillTo,
		DeliverTo:      r.DeliverTo,
		Notes:          r.Notes,
		BankDetails:    r.BankDetails,
		Discount:       r.Discount,
		Items:          items,
	}
}

// NextNumber handles GET /api/invoice/next-number. The number is not
// reserved; it only becomes taken once an invoice is saved with it.
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	number, err := h.numberingService.NextNumber(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, number)
}

// List handles GET /api/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	summaries, err := h.invoiceService.ListInvoices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summaries)
}

// Get handles GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, invoice)
}

// Create handles POST /api/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, invoice.ID, "Invoice saved successfully")
}

// Update handles PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if _, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, req.toInput()); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Invoice updated successfully")
}

// Delete handles DELETE /api/invoices/:id. Idempotent: deleting an
// unknown id still returns 200.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Invoice deleted")
}

// PDF handles GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.pdfService.Render(invoice)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := archive.Filename(invoice.InvoiceNumber)
	filename = filename[:len(filename)-len(".json")] + ".pdf"
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
