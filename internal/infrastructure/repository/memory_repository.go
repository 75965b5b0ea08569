package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/faarish/invoicing-api/internal/domain/entity"
	domainRepo "github.com/faarish/invoicing-api/internal/domain/repository"
	"github.com/faarish/invoicing-api/pkg/apperror"
)

// MemoryInvoiceRepository is a mutex-guarded in-memory implementation
// of the invoice repository. It backs the test suites and mirrors the
// database semantics: assigned ids, a unique invoice number constraint
// and date-descending listing.
type MemoryInvoiceRepository struct {
	mu       sync.Mutex
	nextID   uint
	invoices map[uint]entity.Invoice
}

// NewMemoryInvoiceRepository creates an empty in-memory repository.
func NewMemoryInvoiceRepository() *MemoryInvoiceRepository {
	return &MemoryInvoiceRepository{
		nextID:   1,
		invoices: make(map[uint]entity.Invoice),
	}
}

func (r *MemoryInvoiceRepository) Create(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.invoices {
		if existing.InvoiceNumber == invoice.InvoiceNumber {
			return apperror.NewConflictError("Invoice number already exists")
		}
	}

	invoice.ID = r.nextID
	r.nextID++
	invoice.CreatedAt = time.Now()
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *MemoryInvoiceRepository) GetByID(_ context.Context, id uint) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	invoice, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return &invoice, nil
}

func (r *MemoryInvoiceRepository) GetByNumber(_ context.Context, invoiceNumber string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, invoice := range r.invoices {
		if invoice.InvoiceNumber == invoiceNumber {
			inv := invoice
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *MemoryInvoiceRepository) List(_ context.Context) ([]entity.InvoiceSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaries := make([]entity.InvoiceSummary, 0, len(r.invoices))
	for _, invoice := range r.invoices {
		summaries = append(summaries, entity.InvoiceSummary{
			ID:            invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			Date:          invoice.Date,
			Total:         invoice.Total,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Date != summaries[j].Date {
			return summaries[i].Date > summaries[j].Date
		}
		return summaries[i].ID > summaries[j].ID
	})
	return summaries, nil
}

func (r *MemoryInvoiceRepository) Update(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.invoices {
		if existing.InvoiceNumber == invoice.InvoiceNumber && existing.ID != invoice.ID {
			return apperror.NewConflictError("Invoice number already exists")
		}
	}

	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *MemoryInvoiceRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.invoices, id)
	return nil
}

func (r *MemoryInvoiceRepository) NumbersWithPrefix(_ context.Context, prefix string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var numbers []string
	for _, invoice := range r.invoices {
		if strings.HasPrefix(invoice.InvoiceNumber, prefix) {
			numbers = append(numbers, invoice.InvoiceNumber)
		}
	}
	return numbers, nil
}

var _ domainRepo.InvoiceRepository = (*MemoryInvoiceRepository)(nil)
