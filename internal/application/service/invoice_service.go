package service

import (
	"context"
	"strings"

	"github.com/faarish/invoicing-api/internal/domain/entity"
	"github.com/faarish/invoicing-api/internal/domain/repository"
	"github.com/faarish/invoicing-api/internal/metrics"
	"github.com/faarish/invoicing-api/pkg/apperror"
	"github.com/faarish/invoicing-api/pkg/archive"
	"github.com/faarish/invoicing-api/pkg/money"
	"github.com/sirupsen/logrus"
)

// InvoiceService handles invoice CRUD and the best-effort archive
// mirroring that follows every successful write.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	archiver    archive.Archiver
	log         *logrus.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	archiver archive.Archiver,
	log *logrus.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		archiver:    archiver,
		log:         log,
	}
}

// InvoiceInput represents the submitted invoice fields. Subtotal and
// total are not part of it: the service recomputes both from the items
// and the discount so there is one authoritative totals implementation.
type InvoiceInput struct {
	InvoiceNumber  string
	Date           string
	DueDate        string
	CompanyName    string
	CompanyAddress string
	BillTo         string
	DeliverTo      string
	Notes          string
	BankDetails    string
	Discount       money.Amount
	Items          entity.LineItems
}

// CreateInvoice persists a new invoice and mirrors it to the archive.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *InvoiceInput) (*entity.Invoice, error) {
	if strings.TrimSpace(input.InvoiceNumber) == "" {
		return nil, apperror.NewBadRequestError("Invoice number is required")
	}

	existing, err := s.invoiceRepo.GetByNumber(ctx, input.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Invoice number already exists")
	}

	invoice := &entity.Invoice{
		InvoiceNumber:  input.InvoiceNumber,
		Date:           input.Date,
		DueDate:        input.DueDate,
		CompanyName:    input.CompanyName,
		CompanyAddress: input.CompanyAddress,
		BillTo:         input.BillTo,
		DeliverTo:      input.DeliverTo,
		Notes:          input.Notes,
		BankDetails:    input.BankDetails,
		Discount:       input.Discount,
		Items:          input.Items,
	}
	invoice.Recalculate()

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.archiveWrite(invoice)
	return invoice, nil
}

// GetInvoice retrieves a full invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uint) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices returns summaries of all invoices, newest date first.
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]entity.InvoiceSummary, error) {
	summaries, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []entity.InvoiceSummary{}
	}
	return summaries, nil
}

// UpdateInvoice replaces all mutable fields of an existing invoice.
// ID and CreatedAt are untouched.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uint, input *InvoiceInput) (*entity.Invoice, error) {
	if strings.TrimSpace(input.InvoiceNumber) == "" {
		return nil, apperror.NewBadRequestError("Invoice number is required")
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	duplicate, err := s.invoiceRepo.GetByNumber(ctx, input.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if duplicate != nil && duplicate.ID != id {
		return nil, apperror.NewConflictError("Invoice number already exists")
	}

	previousNumber := invoice.InvoiceNumber

	invoice.InvoiceNumber = input.InvoiceNumber
	invoice.Date = input.Date
	invoice.DueDate = input.DueDate
	invoice.CompanyName = input.CompanyName
	invoice.CompanyAddress = input.CompanyAddress
	invoice.BillTo = input.BillTo
	invoice.DeliverTo = input.DeliverTo
	invoice.Notes = input.Notes
	invoice.BankDetails = input.BankDetails
	invoice.Discount = input.Discount
	invoice.Items = input.Items
	invoice.Recalculate()

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	// Renumbered invoices would otherwise leave an orphaned file under
	// the old name.
	if previousNumber != invoice.InvoiceNumber {
		s.archiveRemove(previousNumber)
	}
	s.archiveWrite(invoice)
	return invoice, nil
}

// DeleteInvoice removes an invoice and its archive file. Deleting an
// unknown id is not an error.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uint) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return nil
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.archiveRemove(invoice.InvoiceNumber)
	return nil
}

// archiveWrite mirrors the invoice to the archive without blocking the
// caller. Failures are logged and counted, never returned.
func (s *InvoiceService) archiveWrite(invoice *entity.Invoice) {
	snapshot := *invoice
	go func() {
		if err := s.archiver.Write(snapshot.InvoiceNumber, &snapshot); err != nil {
			metrics.ArchiveOperationsTotal.WithLabelValues("write", "failure").Inc()
			s.log.WithError(err).
				WithField("invoice_number", snapshot.InvoiceNumber).
				Warn("archive write failed")
			return
		}
		metrics.ArchiveOperationsTotal.WithLabelValues("write", "success").Inc()
	}()
}

func (s *InvoiceService) archiveRemove(invoiceNumber string) {
	go func() {
		if err := s.archiver.Remove(invoiceNumber); err != nil {
			metrics.ArchiveOperationsTotal.WithLabelValues("remove", "failure").Inc()
			s.log.WithError(err).
				WithField("invoice_number", invoiceNumber).
				Warn("archive remove failed")
			return
		}
		metrics.ArchiveOperationsTotal.WithLabelValues("remove", "success").Inc()
	}()
}
