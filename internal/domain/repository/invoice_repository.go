package repository

import (
	"context"

	"github.com/faarish/invoicing-api/internal/domain/entity"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uint) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	List(ctx context.Context) ([]entity.InvoiceSummary, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uint) error
	NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
}
